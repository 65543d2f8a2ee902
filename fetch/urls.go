package fetch

import (
	"fmt"

	"github.com/kaffarell/rfc/document"
)

// URL construction is a pure function of the document identity and the
// representation. RFCs are published by the RFC Editor; drafts live in the
// IETF archive (text) and on the datatracker (HTML and metadata).

// TextURL returns the plain text location of a document.
func TextURL(doc document.Document) string {
	switch d := doc.(type) {
	case document.RFC:
		return fmt.Sprintf("https://www.rfc-editor.org/rfc/rfc%d.txt", d.Number)
	case document.Draft:
		return "https://www.ietf.org/archive/id/" + d.Name + ".txt"
	}
	panic(fmt.Sprintf("unknown document type %T", doc))
}

// HTMLURL returns the HTML location of a document.
func HTMLURL(doc document.Document) string {
	switch d := doc.(type) {
	case document.RFC:
		return fmt.Sprintf("https://www.rfc-editor.org/rfc/rfc%d.html", d.Number)
	case document.Draft:
		return "https://datatracker.ietf.org/doc/html/" + d.Name
	}
	panic(fmt.Sprintf("unknown document type %T", doc))
}

// metadataURL returns the datatracker metadata endpoint for a draft name.
func metadataURL(name string) string {
	return "https://datatracker.ietf.org/doc/" + name + "/doc.json"
}
