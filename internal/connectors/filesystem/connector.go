// Package filesystem discovers notices and updates in a local data directory.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// ConnectorType is the identifier reported by Type.
const ConnectorType = "filesystem"

// errBufferSize bounds the per-file error backlog during FullSync.
const errBufferSize = 16

var mimeTypes = map[string]string{
	"pdf":      "application/pdf",
	"txt":      "text/plain",
	"md":       "text/markdown",
	"markdown": "text/markdown",
}

// Connector scans a directory tree. PDFs become official notices;
// text and markdown files become dynamic updates. Hidden files and
// directories are ignored.
type Connector struct {
	rootPath string

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a connector rooted at rootPath.
func New(rootPath string) *Connector {
	return &Connector{rootPath: rootPath}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return ConnectorType
}

// RootPath returns the scanned directory.
func (c *Connector) RootPath() string {
	return c.rootPath
}

// Validate checks the root path exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.rootPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("root path error: %s does not exist", c.rootPath)
		}
		return fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path error: %s is not a directory", c.rootPath)
	}
	return nil
}

// FullSync walks the directory tree in lexical order and emits every
// supported file.
func (c *Connector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, errBufferSize)

	go func() {
		defer close(docs)
		defer close(errs)

		if err := c.Validate(ctx); err != nil {
			errs <- err
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				sendErr(ctx, errs, fmt.Errorf("walk %s: %w", path, err))
				return nil
			}
			if path != c.rootPath && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			raw, ok, err := c.readFile(path)
			if err != nil {
				sendErr(ctx, errs, err)
				return nil
			}
			if !ok {
				return nil
			}

			select {
			case docs <- raw:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
			sendErr(ctx, errs, walkErr)
		}
	}()

	return docs, errs
}

// readFile loads a supported file. ok is false for unsupported kinds.
func (c *Connector) readFile(path string) (domain.RawDocument, bool, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	sourceType, ok := domain.SourceTypeForExtension(ext)
	if !ok {
		return domain.RawDocument{}, false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.RawDocument{}, false, fmt.Errorf("read %s: %w", path, err)
	}

	return domain.RawDocument{
		Origin:     path,
		MIMEType:   mimeTypes[ext],
		SourceType: sourceType,
		Content:    content,
		Metadata: map[string]any{
			"filename":  filepath.Base(path),
			"extension": ext,
			"size":      len(content),
		},
	}, true, nil
}

// Watch emits a change event for every supported file created, modified
// or removed under the root. The channel closes when ctx is cancelled or
// the connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, errConnectorClosed)
	}
	if err := c.Validate(ctx); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(watcher, c.rootPath); err != nil {
		watcher.Close()
		return nil, err
	}
	c.watcher = watcher

	changes := make(chan domain.RawDocumentChange)
	go c.forward(ctx, watcher, changes)
	return changes, nil
}

func (c *Connector) forward(ctx context.Context, watcher *fsnotify.Watcher, changes chan<- domain.RawDocumentChange) {
	defer close(changes)
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			change, ok := c.toChange(watcher, event)
			if !ok {
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("filesystem watcher error: %v", err)
		}
	}
}

func (c *Connector) toChange(watcher *fsnotify.Watcher, event fsnotify.Event) (domain.RawDocumentChange, bool) {
	name := filepath.Base(event.Name)
	if isHidden(name) {
		return domain.RawDocumentChange{}, false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addTree(watcher, event.Name); err != nil {
				logger.Warn("watch new directory %s: %v", event.Name, err)
			}
			return domain.RawDocumentChange{}, false
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	sourceType, ok := domain.SourceTypeForExtension(ext)
	if !ok {
		return domain.RawDocumentChange{}, false
	}

	var changeType domain.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		changeType = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		changeType = domain.ChangeDeleted
	default:
		return domain.RawDocumentChange{}, false
	}

	return domain.RawDocumentChange{
		Type: changeType,
		Document: domain.RawDocument{
			Origin:     event.Name,
			MIMEType:   mimeTypes[ext],
			SourceType: sourceType,
		},
	}, true
}

// Close stops any active watch. It is safe to call more than once.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.watcher != nil {
		c.watcher.Close()
		c.watcher = nil
	}
	return nil
}

var errConnectorClosed = errors.New("connector closed")

// addTree watches root and every non-hidden directory below it.
func addTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func sendErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}
