package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/rohmanhakim/docs-crawler/internal/controller"
	"github.com/rohmanhakim/docs-crawler/internal/plugin"
	"github.com/rohmanhakim/docs-crawler/pkg/failure"
)

// Server wires the stdlib ServeMux pattern-routing table (Go 1.22+
// method+path patterns) to the single-URL Pipeline, the job controller,
// and the LLM transform plugin.
type Server struct {
	pipeline    *Pipeline
	controller  *controller.Controller
	transformer plugin.Transformer
	apiKey      string
}

// NewServer builds the routed http.Handler. apiKey, when non-empty, is
// required as a Bearer token on every request (the API_KEY env var); an
// empty apiKey disables auth, matching local/dev use.
func NewServer(pipeline *Pipeline, ctrl *controller.Controller, transformer plugin.Transformer, apiKey string) *Server {
	if transformer == nil {
		transformer = plugin.Noop{}
	}
	return &Server{pipeline: pipeline, controller: ctrl, transformer: transformer, apiKey: apiKey}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scrape", s.handleScrape)
	mux.HandleFunc("POST /extract-schema", s.handleExtractSchema)
	mux.HandleFunc("POST /summarize", s.handleSummarize)
	mux.HandleFunc("POST /crawl", s.handleStartCrawl)
	mux.HandleFunc("GET /crawl/{id}", s.handleCrawlStatus)
	mux.HandleFunc("DELETE /crawl/{id}", s.handleCancelCrawl)
	mux.HandleFunc("DELETE /cache", s.handleClearCache)
	return s.withAuth(mux)
}

func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.apiKey == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+s.apiKey {
			writeError(w, http.StatusUnauthorized, errors.New("invalid or missing api key"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type scrapeRequest struct {
	URL     string        `json:"url"`
	Options ScrapeOptions `json:"options"`
}

type scrapeResponse struct {
	Markdown string `json:"markdown"`
	Metadata struct {
		FromCache bool `json:"fromCache"`
	} `json:"metadata"`
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	req, target, ok := s.decodeScrapeRequest(w, r)
	if !ok {
		return
	}

	result, err := s.pipeline.Scrape(r.Context(), target, req.Options)
	if err != nil {
		writeClassifiedError(w, err)
		return
	}

	resp := scrapeResponse{Markdown: string(result.Markdown)}
	resp.Metadata.FromCache = result.FromCache
	writeJSON(w, http.StatusOK, resp)
}

type extractSchemaRequest struct {
	URL     string          `json:"url"`
	Schema  json.RawMessage `json:"schema"`
	Options ScrapeOptions   `json:"options"`
}

func (s *Server) handleExtractSchema(w http.ResponseWriter, r *http.Request) {
	var body extractSchemaRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	target, err := url.Parse(body.URL)
	if err != nil || body.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}

	result, scrapeErr := s.pipeline.Scrape(r.Context(), *target, body.Options)
	if scrapeErr != nil {
		writeClassifiedError(w, scrapeErr)
		return
	}

	transformed, transformErr := s.transformer.Transform(r.Context(), string(result.Markdown), plugin.TransformOptions{Schema: body.Schema})
	if transformErr != nil {
		writeError(w, http.StatusBadGateway, transformErr)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(transformed)
}

type summarizeRequest struct {
	URL       string        `json:"url"`
	MaxLength int           `json:"maxLength"`
	Options   ScrapeOptions `json:"options"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	target, err := url.Parse(body.URL)
	if err != nil || body.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}

	result, scrapeErr := s.pipeline.Scrape(r.Context(), *target, body.Options)
	if scrapeErr != nil {
		writeClassifiedError(w, scrapeErr)
		return
	}

	transformed, transformErr := s.transformer.Transform(r.Context(), string(result.Markdown), plugin.TransformOptions{MaxLength: body.MaxLength})
	if transformErr != nil {
		writeError(w, http.StatusBadGateway, transformErr)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(transformed)
}

func (s *Server) decodeScrapeRequest(w http.ResponseWriter, r *http.Request) (scrapeRequest, url.URL, bool) {
	var body scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return scrapeRequest{}, url.URL{}, false
	}
	if body.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return scrapeRequest{}, url.URL{}, false
	}
	parsed, err := url.Parse(body.URL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return scrapeRequest{}, url.URL{}, false
	}
	return body, *parsed, true
}

func (s *Server) handleStartCrawl(w http.ResponseWriter, r *http.Request) {
	var req controller.CrawlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.controller.Start(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleCrawlStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	skip, limit := pagingParams(r)
	snapshot, err := s.controller.Status(id, skip, limit)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleCancelCrawl(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.controller.Cancel(id); err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	s.pipeline.cache.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func pagingParams(r *http.Request) (skip int, limit int) {
	limit = 50
	q := r.URL.Query()
	if v := q.Get("skip"); v != "" {
		if n, err := parseNonNegativeInt(v); err == nil {
			skip = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := parseNonNegativeInt(v); err == nil && n > 0 {
			limit = n
		}
	}
	return skip, limit
}

func parseNonNegativeInt(s string) (int, error) {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errors.New("not a number")
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeClassifiedError(w http.ResponseWriter, err failure.ClassifiedError) {
	status := http.StatusBadGateway
	if err.Severity() == failure.SeverityFatal {
		status = http.StatusInternalServerError
	}
	writeError(w, status, err)
}
