package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/kaffarell/rfc/document"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Could not create cache: %v", err)
	}
	return c
}

func TestEntryPath(t *testing.T) {
	tests := []struct {
		doc    document.Document
		format document.Format
		path   string
	}{
		{document.RFC{Number: 9000}, document.Text, "documents/rfc9000.txt"},
		{document.RFC{Number: 9000}, document.HTML, "documents/rfc9000.html"},
		{document.Draft{Name: "draft-ietf-quic-transport-34"}, document.Text, "documents/draft-ietf-quic-transport-34.txt"},
		{document.Draft{Name: "draft-ietf-quic-transport-34"}, document.HTML, "documents/draft-ietf-quic-transport-34.html"},
	}
	for _, tt := range tests {
		want := filepath.Join("root", filepath.FromSlash(tt.path))
		if got := entryPath("root", tt.doc, tt.format); got != want {
			t.Fatalf("Path for %s (%s) is %s", tt.doc.CanonicalName(), tt.format, got)
		}
	}
}

func TestStoreAndRetrieve(t *testing.T) {
	c := testCache(t)
	doc := document.RFC{Number: 9000}
	content := []byte("<html>Test content</html>")

	if err := c.Put(doc, document.HTML, content); err != nil {
		t.Fatalf("Could not store document: %v", err)
	}
	retrieved, ok := c.Get(doc, document.HTML)
	if !ok {
		t.Fatal("Stored document not found")
	}
	if !bytes.Equal(retrieved, content) {
		t.Fatalf("Retrieved content is %q", retrieved)
	}
}

func TestMissIsNotAnError(t *testing.T) {
	c := testCache(t)
	if _, ok := c.Get(document.RFC{Number: 404}, document.Text); ok {
		t.Fatal("Got content for a document that was never stored")
	}
}

func TestOverwrite(t *testing.T) {
	c := testCache(t)
	doc := document.RFC{Number: 791}

	if err := c.Put(doc, document.Text, []byte("old")); err != nil {
		t.Fatalf("Could not store document: %v", err)
	}
	if err := c.Put(doc, document.Text, []byte("new")); err != nil {
		t.Fatalf("Could not overwrite document: %v", err)
	}
	content, _ := c.Get(doc, document.Text)
	if string(content) != "new" {
		t.Fatalf("Content after overwrite is %q", content)
	}
}

func TestRemove(t *testing.T) {
	c := testCache(t)
	doc := document.RFC{Number: 9000}

	// removing a document that was never stored returns false
	if removed, err := c.Remove(doc); err != nil || removed {
		t.Fatalf("Remove of nonexistent document: removed=%v err=%v", removed, err)
	}

	c.Put(doc, document.HTML, []byte("html content"))
	c.Put(doc, document.Text, []byte("text content"))

	if removed, err := c.Remove(doc); err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	if _, ok := c.Get(doc, document.HTML); ok {
		t.Fatal("HTML entry still present after remove")
	}
	if _, ok := c.Get(doc, document.Text); ok {
		t.Fatal("Text entry still present after remove")
	}
	if removed, _ := c.Remove(doc); removed {
		t.Fatal("Second remove reported true")
	}
}

func TestRemoveSingleFormat(t *testing.T) {
	c := testCache(t)
	doc := document.RFC{Number: 8000}

	c.Put(doc, document.HTML, []byte("html only"))

	if removed, err := c.Remove(doc); err != nil || !removed {
		t.Fatalf("Remove: removed=%v err=%v", removed, err)
	}
	if _, ok := c.Get(doc, document.HTML); ok {
		t.Fatal("Entry still present after remove")
	}
}

func TestClear(t *testing.T) {
	c := testCache(t)
	docs := []document.Document{
		document.RFC{Number: 9000},
		document.RFC{Number: 8200},
		document.Draft{Name: "draft-foo-00"},
	}
	for _, doc := range docs {
		c.Put(doc, document.Text, []byte("test"))
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Could not clear cache: %v", err)
	}
	for _, doc := range docs {
		if _, ok := c.Get(doc, document.Text); ok {
			t.Fatalf("%s still present after clear", doc.CanonicalName())
		}
	}
}

func TestList(t *testing.T) {
	c := testCache(t)

	c.Put(document.RFC{Number: 9000}, document.HTML, []byte("test"))
	c.Put(document.RFC{Number: 8200}, document.Text, []byte("test"))

	docs := c.List()
	if len(docs) != 2 {
		t.Fatalf("Listed %d documents", len(docs))
	}
	found := make(map[document.Document]bool)
	for _, doc := range docs {
		found[doc] = true
	}
	if !found[document.RFC{Number: 9000}] || !found[document.RFC{Number: 8200}] {
		t.Fatalf("Listed documents are %v", docs)
	}
}

func TestListCollapsesFormats(t *testing.T) {
	c := testCache(t)
	doc := document.RFC{Number: 9114}

	c.Put(doc, document.Text, []byte("text"))
	c.Put(doc, document.HTML, []byte("html"))

	if docs := c.List(); len(docs) != 1 {
		t.Fatalf("Listed %d documents", len(docs))
	}
}

func TestListDrafts(t *testing.T) {
	c := testCache(t)
	draft := document.Draft{Name: "draft-ietf-quic-transport-34"}

	c.Put(draft, document.Text, []byte("test"))

	docs := c.List()
	if len(docs) != 1 {
		t.Fatalf("Listed %d documents", len(docs))
	}
	if docs[0] != draft {
		t.Fatalf("Listed document is %#v", docs[0])
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	c := testCache(t)
	c.Put(document.RFC{Number: 9000}, document.Text, []byte("test"))

	// a file that does not parse as a document identity
	foreign := entryPath(c.Dir(), document.RFC{Number: 1}, document.Text)
	foreign = filepath.Join(filepath.Dir(foreign), "notes.txt")
	if err := os.WriteFile(foreign, []byte("scratch"), 0o644); err != nil {
		t.Fatalf("Could not write file: %v", err)
	}

	if docs := c.List(); len(docs) != 1 {
		t.Fatalf("Listed %d documents", len(docs))
	}
}
