// Package server exposes the read-through document client over HTTP, so a
// local network can share one document cache.
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kaffarell/rfc"
	"github.com/kaffarell/rfc/document"
	"github.com/kaffarell/rfc/fetch"
)

type Config struct {
	// Client used to look up and fetch documents.
	Client *rfc.Client
	// Logger to use. The global zerolog logger is used if nil.
	Logger *zerolog.Logger
}

// Server serves documents over HTTP. Responses carry an X-Cache header
// indicating whether the content came from the local cache.
type Server struct {
	client *rfc.Client
	log    zerolog.Logger
}

func New(config Config) *Server {
	logger := log.Logger
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Server{
		client: config.Client,
		log:    logger,
	}
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/rfc/{number}", s.handleRFC)
	r.Get("/draft/{name}", s.handleDraft)
	r.Get("/cached", s.handleCached)
	return r
}

// ListenAndServe serves on the given address until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Info().Str("addr", addr).Msg("Serving documents")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleRFC(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number <= 0 {
		http.Error(w, "invalid RFC number", http.StatusBadRequest)
		return
	}
	s.serveDocument(w, r, document.RFC{Number: number})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		http.Error(w, "missing draft name", http.StatusBadRequest)
		return
	}
	s.serveDocument(w, r, document.Draft{Name: name})
}

func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, doc document.Document) {
	content, format, cached, err := s.client.Get(r.Context(), doc)
	if err != nil {
		s.log.Error().Err(err).Str("document", doc.CanonicalName()).Msg("Could not get document")
		if errors.Is(err, fetch.ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
		} else {
			http.Error(w, "could not fetch document", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Write(content)
}

// handleCached lists the canonical names of all cached documents, one per
// line.
func (s *Server) handleCached(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, doc := range s.client.Cache().List() {
		w.Write([]byte(doc.CanonicalName() + "\n"))
	}
}
