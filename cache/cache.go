// Package cache stores fetched document content on the local filesystem.
//
// Every entry lives at a path fully determined by the document identity and
// the representation: <root>/documents/<canonical-name>.<extension>. No
// metadata is kept alongside the content, and nothing expires on its own;
// entries live until they are removed explicitly.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kirsle/configdir"

	"github.com/kaffarell/rfc/document"
)

// AppName is used to derive the platform cache directory.
const AppName = "rfc"

const documentsDir = "documents"

// Cache is an identity-keyed document store rooted at a single directory.
// It does no locking: concurrent writers to the same entry race, and the
// last write wins.
type Cache struct {
	root string
}

// New returns a cache rooted at dir, creating the directory if needed.
// If dir is empty, the platform default from DefaultDir is used.
func New(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache directory: %w", err)
	}
	return &Cache{root: dir}, nil
}

// DefaultDir returns the platform cache directory for the application,
// falling back to $HOME/.cache/rfc when no platform convention resolves.
func DefaultDir() (string, error) {
	if dir := configdir.LocalCache(AppName); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine cache directory: %w", err)
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.root
}

// Get returns the cached content for the document in the given format.
// Any read failure counts as a miss: the caller treats absence uniformly as
// "go fetch from the network", so "never cached" and "not readable" are not
// distinguished.
func (c *Cache) Get(doc document.Document, format document.Format) ([]byte, bool) {
	content, err := os.ReadFile(c.path(doc, format))
	if err != nil {
		return nil, false
	}
	return content, true
}

// Put stores content for the document in the given format, overwriting any
// existing entry. Missing intermediate directories are created.
func (c *Cache) Put(doc document.Document, format document.Format, content []byte) error {
	path := c.path(doc, format)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create document cache directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("could not write cache entry for %s: %w", doc.CanonicalName(), err)
	}
	return nil
}

// Remove deletes the text and HTML entries for the document.
// It reports whether at least one of the two existed. Removing a document
// that was never stored is not an error.
func (c *Cache) Remove(doc document.Document) (bool, error) {
	removed := false
	for _, format := range document.Formats {
		err := os.Remove(c.path(doc, format))
		if err == nil {
			removed = true
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("could not remove cache entry for %s: %w", doc.CanonicalName(), err)
		}
	}
	return removed, nil
}

// Clear deletes every cached document and recreates an empty cache root.
func (c *Cache) Clear() error {
	if err := os.RemoveAll(c.root); err != nil {
		return fmt.Errorf("could not clear cache: %w", err)
	}
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return fmt.Errorf("could not recreate cache directory: %w", err)
	}
	return nil
}

// List returns the identities of all cached documents, one per identity even
// when both representations are present. File names that do not parse as a
// document identity are skipped. Order follows directory enumeration order.
func (c *Cache) List() []document.Document {
	entries, err := os.ReadDir(filepath.Join(c.root, documentsDir))
	if err != nil {
		return nil
	}
	seen := make(map[document.Document]bool, len(entries))
	docs := make([]document.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		doc, ok := document.Parse(stem)
		if !ok || seen[doc] {
			continue
		}
		seen[doc] = true
		docs = append(docs, doc)
	}
	return docs
}

func (c *Cache) path(doc document.Document, format document.Format) string {
	return entryPath(c.root, doc, format)
}

// entryPath is the identity-to-path mapping. It is a pure function of its
// arguments and never touches the filesystem.
func entryPath(root string, doc document.Document, format document.Format) string {
	return filepath.Join(root, documentsDir, doc.CanonicalName()+"."+format.Extension())
}
