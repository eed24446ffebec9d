package server

import (
	"log"
	"net/http"
)

// rssHandler serves the stored articles as an RSS 2.0 feed, optionally
// scoped to one topic via the path
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	topic := r.PathValue("topic")

	articles := s.articles.Articles(topic, 0)

	rss, err := s.generator.GenerateRSS(articles, topic)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS: %v", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[WARN] failed to write RSS response: %v", err)
	}
}
