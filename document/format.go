package document

// Format is the content representation of a document: plain text or HTML.
// Text is the preferred representation, HTML the fallback.
type Format int

const (
	Text Format = iota
	HTML
)

// Formats lists all representations in preference order.
var Formats = []Format{Text, HTML}

// Extension returns the file name extension used for cache entries in this
// format.
func (f Format) Extension() string {
	if f == HTML {
		return "html"
	}
	return "txt"
}

// ContentType returns the HTTP content type for the format.
func (f Format) ContentType() string {
	if f == HTML {
		return "text/html; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

func (f Format) String() string {
	if f == HTML {
		return "html"
	}
	return "text"
}
