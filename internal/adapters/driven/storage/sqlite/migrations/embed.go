// Package migrations holds the SQLite schema as numbered scripts.
package migrations

import "embed"

// FS holds the NNN_name.up.sql scripts. The store applies each version
// once, in ascending order.
//
//go:embed *.sql
var FS embed.FS
