package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/render"
	"github.com/Zuo-Peng/prompt-history/internal/sanitize"
	"github.com/Zuo-Peng/prompt-history/internal/scan"
	"github.com/Zuo-Peng/prompt-history/internal/search"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

// Server serves transcript cards and rendered transcripts over HTTP.
type Server struct {
	db             *index.DB
	allowedOrigins []string
}

func New(db *index.DB, allowedOrigins []string) *Server {
	return &Server{db: db, allowedOrigins: allowedOrigins}
}

// Card is the JSON shape of one transcript in the list view.
type Card struct {
	transcript.Metadata
	Index     int    `json:"index"`
	SizeLabel string `json:"size"`
}

// Routes configures HTTP routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if len(s.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndexPage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/transcripts", s.handleListTranscripts)
		r.Get("/transcripts/{id}", s.handleGetTranscript)
		r.Get("/transcripts/{id}/metadata", s.handleGetMetadata)
		r.Get("/search", s.handleSearch)
	})

	return r
}

// requestLogger logs one structured record per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"req", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) cards() ([]Card, error) {
	rows, err := s.db.ListTranscripts()
	if err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(rows))
	for _, row := range rows {
		cards = append(cards, Card{Metadata: row.Metadata(), Index: row.Index, SizeLabel: row.SizeLabel})
	}
	return cards, nil
}

func (s *Server) handleListTranscripts(w http.ResponseWriter, r *http.Request) {
	cards, err := s.cards()
	if err != nil {
		slog.Error("list transcripts", "err", err)
		respondError(w, http.StatusInternalServerError, "failed to list transcripts")
		return
	}
	respondJSON(w, http.StatusOK, cards)
}

// loadDocument reads a transcript for the {id} route parameter, writing
// the error response itself when it fails.
func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) (*index.TranscriptRow, string, bool) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	if err != nil || id == "" {
		respondError(w, http.StatusBadRequest, "invalid transcript id")
		return nil, "", false
	}

	row, text, err := s.db.LoadText(id)
	if err != nil {
		if errors.Is(err, scan.ErrNotFound) {
			respondError(w, http.StatusNotFound, "transcript not found")
			return nil, "", false
		}
		slog.Error("load transcript", "id", id, "err", err)
		respondError(w, http.StatusInternalServerError, "failed to load transcript")
		return nil, "", false
	}
	return row, text, true
}

func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	_, text, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.HTML(transcript.Segment(text))))
}

func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	row, text, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, Card{
		Metadata:  transcript.ExtractMetadata(row.ID, text),
		Index:     row.Index,
		SizeLabel: row.SizeLabel,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respondError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	results, err := search.Search(s.db, search.Options{
		Query: q,
		Agent: r.URL.Query().Get("agent"),
		Limit: limit,
	})
	if err != nil {
		slog.Error("search", "query", q, "err", err)
		respondError(w, http.StatusInternalServerError, "search failed")
		return
	}

	type hit struct {
		ID      string `json:"id"`
		Line    int    `json:"line"`
		Summary string `json:"summary"`
		Snippet string `json:"snippet"`
	}
	hits := make([]hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, hit{ID: res.ID, Line: res.Line, Summary: res.Summary, Snippet: res.Snippet})
	}
	respondJSON(w, http.StatusOK, hits)
}

// handleIndexPage serves a minimal card list that loads transcripts into
// a viewer panel.
func (s *Server) handleIndexPage(w http.ResponseWriter, r *http.Request) {
	cards, err := s.cards()
	if err != nil {
		slog.Error("list transcripts", "err", err)
		http.Error(w, "failed to list transcripts", http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>Prompt History</title></head><body>`)
	b.WriteString(`<h1>Prompt History</h1><div class="cards">`)
	for _, c := range cards {
		fmt.Fprintf(&b, `<a class="card" href="/api/v1/transcripts/%s">`, sanitize.Escape(url.PathEscape(c.ID)))
		fmt.Fprintf(&b, `<div class="card-title">%s <span class="card-size">%s</span></div>`,
			sanitize.Escape(c.ID), sanitize.Escape(c.SizeLabel))
		fmt.Fprintf(&b, `<div class="card-summary">%s</div>`, sanitize.Escape(c.Summary))
		fmt.Fprintf(&b, `<div class="card-stats">%d messages · %d tool calls · %d files</div></a>`,
			c.MessageCount, c.ToolCalls, c.FilesChanged)
	}
	b.WriteString(`</div></body></html>`)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(b.String()))
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
