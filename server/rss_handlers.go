package server

import (
	"log"
	"net/http"

	"github.com/Dev-123-win/my-shayari-content/pkg/domain"
	"github.com/Dev-123-win/my-shayari-content/pkg/feed"
)

const defaultRSSLimit = 50

// rssHandler serves RSS feed with the newest entries of a category
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	cat, err := domain.ParseCategory(r.PathValue("category"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := s.store.Load()
	if err != nil {
		log.Printf("[ERROR] failed to load collection for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	generator := feed.NewGenerator(s.config.GetBaseURL())
	rss, err := generator.GenerateRSS(cat, c.Latest(cat, defaultRSSLimit), c.Meta.UpdatedTime())
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
