// Package fetch retrieves RFC and draft content from the RFC Editor and the
// IETF datatracker, preferring plain text and falling back to HTML.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kaffarell/rfc/document"
)

const defaultTimeout = 30 * time.Second

const defaultUserAgent = "rfc/dev"

var (
	// ErrNotFound is returned when a remote endpoint answers with a
	// non-success status for a requested document or draft.
	ErrNotFound = errors.New("document not found")
	// ErrMetadataUnavailable is returned when the datatracker metadata
	// endpoint cannot be reached.
	ErrMetadataUnavailable = errors.New("datatracker unavailable")
)

// FetchError reports that both the text and the HTML retrieval failed.
// Both underlying causes are preserved.
type FetchError struct {
	Doc     document.Document
	TextErr error
	HTMLErr error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not fetch %s: plain text fetch failed (%v); HTML fallback also failed (%v)",
		e.Doc.CanonicalName(), e.TextErr, e.HTMLErr)
}

func (e *FetchError) Unwrap() []error {
	return []error{e.TextErr, e.HTMLErr}
}

type Config struct {
	// HTTP client to use. A client with a 30 second timeout is used if
	// nil.
	Client *http.Client
	// User agent sent on every outbound request.
	UserAgent string
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Fetcher retrieves document content over HTTP. Every operation performs at
// most one request per URL; the only built-in resilience is the text-to-HTML
// fallback in Fetch.
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

func New(config Config) *Fetcher {
	client := config.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		log:       logger,
	}
}

// Fetch retrieves the document in the preferred available representation.
// The identity is first resolved via Resolve, then the text URL is tried,
// then the HTML URL. If both attempts fail, the returned error carries both
// causes.
func (f *Fetcher) Fetch(ctx context.Context, doc document.Document) ([]byte, document.Format, error) {
	doc, err := f.Resolve(ctx, doc)
	if err != nil {
		return nil, 0, err
	}

	textURL := TextURL(doc)
	content, textErr := f.get(ctx, textURL)
	if textErr == nil {
		return content, document.Text, nil
	}
	f.log.Debug().Err(textErr).Str("url", textURL).Msg("Plain text fetch failed, falling back to HTML")

	content, htmlErr := f.get(ctx, HTMLURL(doc))
	if htmlErr != nil {
		return nil, 0, &FetchError{Doc: doc, TextErr: textErr, HTMLErr: htmlErr}
	}
	return content, document.HTML, nil
}

// Resolve rewrites an unversioned draft identity to one naming the latest
// revision known to the datatracker. RFCs, drafts that already carry a
// revision suffix, and drafts for which the datatracker has no revision on
// record are returned unchanged.
func (f *Fetcher) Resolve(ctx context.Context, doc document.Document) (document.Document, error) {
	draft, ok := doc.(document.Draft)
	if !ok || hasVersionSuffix(draft.Name) {
		return doc, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL(draft.Name), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not query draft info for %s: %w: %v", draft.Name, ErrMetadataUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("draft %s: %w (HTTP %d)", draft.Name, ErrNotFound, res.StatusCode)
	}

	var info struct {
		Rev string `json:"rev"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("could not parse draft info for %s: %w", draft.Name, err)
	}
	if info.Rev == "" {
		// cannot resolve, fetch the unqualified name as is
		return doc, nil
	}

	resolved := document.Draft{Name: draft.Name + "-" + info.Rev}
	f.log.Debug().Str("draft", draft.Name).Str("rev", info.Rev).Msg("Resolved draft revision")
	return resolved, nil
}

// hasVersionSuffix reports whether a draft name already ends in a revision
// number, i.e. a dash followed by one or more ASCII digits. A trailing bare
// dash or a suffix containing anything but digits does not count.
func hasVersionSuffix(name string) bool {
	i := strings.LastIndexByte(name, '-')
	if i == -1 || i == len(name)-1 {
		return false
	}
	for _, c := range name[i+1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// get performs a single GET against the given URL. Any non-2xx status counts
// as failure; nothing is retried.
func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("could not fetch %s: HTTP %d", url, res.StatusCode)
	}

	content, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read body of %s: %w", url, err)
	}
	return content, nil
}
