// Package document defines the identity of an IETF document: either a
// published RFC referenced by number, or an Internet-Draft referenced by
// name. Identities are plain comparable values so they can be used as cache
// keys directly.
package document

import (
	"strconv"
	"strings"
)

// Document is the closed set of document identities. The only
// implementations are RFC and Draft; code branching on the concrete type can
// rely on it being one of the two.
type Document interface {
	// CanonicalName is the identity-derived string used to name cache
	// files and to construct certain remote URLs.
	CanonicalName() string

	isDocument()
}

// RFC is a published document with a permanent number.
// Numbers are not validated against any known range.
type RFC struct {
	Number int
}

func (r RFC) CanonicalName() string { return "rfc" + strconv.Itoa(r.Number) }

func (r RFC) String() string { return "RFC " + strconv.Itoa(r.Number) }

func (r RFC) isDocument() {}

// Draft is an in-progress document. The name may or may not already carry a
// revision suffix; the same draft with and without the suffix are two
// distinct identities.
type Draft struct {
	Name string
}

func (d Draft) CanonicalName() string { return d.Name }

func (d Draft) String() string { return d.Name }

func (d Draft) isDocument() {}

// Parse turns a canonical name back into a document identity.
// It accepts "rfc<number>" and "draft-..." names and rejects everything
// else.
func Parse(name string) (Document, bool) {
	if digits, ok := strings.CutPrefix(name, "rfc"); ok {
		if number, ok := parseNumber(digits); ok {
			return RFC{Number: number}, true
		}
		return nil, false
	}
	if strings.HasPrefix(name, "draft-") {
		return Draft{Name: name}, true
	}
	return nil, false
}

// parseNumber is a stricter strconv.Atoi: only ASCII digits, no sign.
func parseNumber(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	number, err := strconv.Atoi(s)
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}
