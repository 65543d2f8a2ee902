// Package rfc ties the document cache and the fetcher together into a
// read-through client: cached content is served as is, everything else is
// fetched from the RFC Editor or the datatracker and written back to the
// cache.
package rfc

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kaffarell/rfc/cache"
	"github.com/kaffarell/rfc/document"
	"github.com/kaffarell/rfc/fetch"
)

type Config struct {
	// Storage for fetched documents.
	Cache *cache.Cache
	// Fetcher used on cache misses.
	Fetcher *fetch.Fetcher
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Client is a read-through document client. It is synchronous and performs
// no deduplication: two concurrent requests for the same document may both
// reach the network, last cache write wins.
type Client struct {
	cache   *cache.Cache
	fetcher *fetch.Fetcher
	log     zerolog.Logger
}

func NewClient(config Config) *Client {
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Client{
		cache:   config.Cache,
		fetcher: config.Fetcher,
		log:     logger,
	}
}

// Cache returns the underlying document cache.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// Get returns the document content in the preferred available
// representation, together with whether it was served from the cache.
//
// The cache is consulted under the identity as given; on a miss the document
// is fetched (resolving draft revisions along the way) and stored back under
// the same identity. A failed cache write is logged but does not fail the
// request, since the content is already in hand.
func (c *Client) Get(ctx context.Context, doc document.Document) ([]byte, document.Format, bool, error) {
	for _, format := range document.Formats {
		if content, ok := c.cache.Get(doc, format); ok {
			c.log.Debug().
				Str("document", doc.CanonicalName()).
				Str("format", format.String()).
				Msg("Serving document from cache")
			return content, format, true, nil
		}
	}

	content, format, err := c.fetcher.Fetch(ctx, doc)
	if err != nil {
		return nil, 0, false, err
	}
	if err := c.cache.Put(doc, format, content); err != nil {
		c.log.Warn().Err(err).Str("document", doc.CanonicalName()).Msg("Could not write cache entry")
	} else {
		c.log.Debug().
			Str("document", doc.CanonicalName()).
			Str("format", format.String()).
			Msg("Stored document in cache")
	}
	return content, format, false, nil
}
