package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
)

const defaultRunsLimit = 50

// statusResponse is returned by the status endpoint
type statusResponse struct {
	Status     string                  `json:"status"`
	Version    string                  `json:"version"`
	Time       time.Time               `json:"time"`
	UpdatedAt  string                  `json:"updated_at,omitempty"`
	Total      int                     `json:"total"`
	Categories map[domain.Category]int `json:"categories"`
	LastRun    *domain.Run             `json:"last_run,omitempty"`
}

// categoryResponse is returned by the category endpoint
type categoryResponse struct {
	Category  domain.Category `json:"category"`
	UpdatedAt string          `json:"updated_at,omitempty"`
	Total     int             `json:"total"`
	Entries   []string        `json:"entries"`
}

// statusHandler returns server status with collection counters
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Load()
	if err != nil {
		log.Printf("[ERROR] failed to load collection: %v", err)
		renderError(w, r, fmt.Errorf("can't load collection"), http.StatusInternalServerError)
		return
	}

	resp := statusResponse{
		Status:     "ok",
		Version:    s.version,
		Time:       time.Now().UTC(),
		UpdatedAt:  c.Meta.UpdatedAt,
		Total:      c.Total(),
		Categories: make(map[domain.Category]int, len(domain.Categories())),
	}
	for _, cat := range domain.Categories() {
		resp.Categories[cat] = len(c.Entries[cat])
	}

	if s.runs != nil {
		runs, err := s.runs.ListRuns(r.Context(), 1)
		if err != nil {
			log.Printf("[WARN] failed to get last run: %v", err)
		}
		if len(runs) > 0 {
			resp.LastRun = &runs[0]
		}
	}

	renderJSON(w, r, http.StatusOK, resp)
}

// collectionHandler returns the whole collection in its file format
func (s *Server) collectionHandler(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Load()
	if err != nil {
		log.Printf("[ERROR] failed to load collection: %v", err)
		renderError(w, r, fmt.Errorf("can't load collection"), http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, c)
}

// categoryHandler returns the newest entries of a category, ?limit=N caps the count
func (s *Server) categoryHandler(w http.ResponseWriter, r *http.Request) {
	cat, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	limit, err := parseLimit(r, 0)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	c, err := s.store.Load()
	if err != nil {
		log.Printf("[ERROR] failed to load collection: %v", err)
		renderError(w, r, fmt.Errorf("can't load collection"), http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, categoryResponse{
		Category:  cat,
		UpdatedAt: c.Meta.UpdatedAt,
		Total:     len(c.Entries[cat]),
		Entries:   c.Latest(cat, limit),
	})
}

// runsHandler returns run history, newest first
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		renderError(w, r, fmt.Errorf("run history is disabled"), http.StatusNotFound)
		return
	}

	limit, err := parseLimit(r, defaultRunsLimit)
	if err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}

	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to list runs: %v", err)
		renderError(w, r, fmt.Errorf("can't list runs"), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []domain.Run{}
	}
	renderJSON(w, r, http.StatusOK, runs)
}

// parseLimit reads positive ?limit=N, returns def if not set
func parseLimit(r *http.Request, def int) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("invalid limit %q", limitStr)
	}
	return limit, nil
}
