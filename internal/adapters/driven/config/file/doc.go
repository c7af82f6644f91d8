// Package file keeps settings and prompt templates on the local disk.
//
// ConfigStore persists settings as TOML under ~/.noticeagent. EnvStore
// layers NOTICEAGENT_* environment variables and a .env file over any
// ConfigStore. PromptStore serves the answer prompt from an editable text
// file.
package file
