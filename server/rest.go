package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":       "ok",
		"version":      s.version,
		"time":         time.Now().UTC(),
		"last_fetched": s.articles.LastFetched(),
		"articles":     s.articles.Count(),
		"refreshing":   s.scheduler.Running(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// articlesHandler returns the flattened sorted article list,
// optionally scoped to one topic and limited
func (s *Server) articlesHandler(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		if limit, err = strconv.Atoi(limitStr); err != nil || limit < 0 {
			renderError(w, r, fmt.Errorf("invalid limit"), http.StatusBadRequest)
			return
		}
	}

	renderJSON(w, r, http.StatusOK, s.articles.Articles(topic, limit))
}

// topicsHandler returns topic names with icons and article counts
func (s *Server) topicsHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, s.articles.Topics())
}

// refreshHandler triggers an immediate pipeline run
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if !s.scheduler.TriggerNow() {
		renderJSON(w, r, http.StatusConflict, map[string]string{"status": "refresh already running"})
		return
	}
	renderJSON(w, r, http.StatusAccepted, map[string]string{"status": "refresh triggered"})
}

// dedupHandler runs the deduplication maintenance pass
func (s *Server) dedupHandler(w http.ResponseWriter, r *http.Request) {
	before := s.articles.Count()
	if err := s.maintenance.RunDedup(); err != nil {
		log.Printf("[ERROR] deduplication failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]int{"removed": before - s.articles.Count()})
}

// retagHandler re-runs tag classification over all cached articles
func (s *Server) retagHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.maintenance.Retag(); err != nil {
		log.Printf("[ERROR] retag failed: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]int{"retagged": s.articles.Count()})
}

// listFeedsHandler returns the configured feed URLs
func (s *Server) listFeedsHandler(w http.ResponseWriter, r *http.Request) {
	urls, err := s.sources.FeedURLs()
	if err != nil {
		log.Printf("[ERROR] failed to read feeds: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string][]string{"feeds": urls})
}

type feedRequest struct {
	URL string `json:"url"`
}

// addFeedHandler appends a feed URL to the list
func (s *Server) addFeedHandler(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		renderError(w, r, fmt.Errorf("invalid request, url required"), http.StatusBadRequest)
		return
	}

	if err := s.sources.AddFeedURL(req.URL); err != nil {
		renderError(w, r, err, http.StatusBadRequest)
		return
	}
	renderJSON(w, r, http.StatusCreated, map[string]string{"status": "feed added"})
}

// removeFeedHandler deletes a feed URL from the list
func (s *Server) removeFeedHandler(w http.ResponseWriter, r *http.Request) {
	var req feedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		renderError(w, r, fmt.Errorf("invalid request, url required"), http.StatusBadRequest)
		return
	}

	if err := s.sources.RemoveFeedURL(req.URL); err != nil {
		renderError(w, r, err, http.StatusNotFound)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"status": "feed removed"})
}

type removeArticleRequest struct {
	Link string `json:"link"`
}

// removeArticleHandler adds the link to the removed list, evicts it from the
// store and persists; future pipeline runs keep skipping it
func (s *Server) removeArticleHandler(w http.ResponseWriter, r *http.Request) {
	var req removeArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Link == "" {
		renderError(w, r, fmt.Errorf("invalid request, link required"), http.StatusBadRequest)
		return
	}

	if err := s.sources.AddRemoved(req.Link); err != nil {
		log.Printf("[ERROR] failed to add removed link: %v", err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	evicted := s.articles.RemoveLink(req.Link)
	if evicted {
		if err := s.cache.Save(s.articles.Snapshot()); err != nil {
			log.Printf("[WARN] can't persist cache after article removal: %v", err)
		}
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"status": "article removed", "evicted": evicted})
}

// renderJSON sends data as JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
