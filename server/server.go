// Package server exposes the article store and pipeline controls over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/brightside-news/brightside/pkg/domain"
	"github.com/brightside-news/brightside/pkg/store"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler
//go:generate moq -out mocks/maintenance.go -pkg mocks -skip-ensure -fmt goimports . Maintenance
//go:generate moq -out mocks/sources.go -pkg mocks -skip-ensure -fmt goimports . Sources

// ArticleStore is the read/moderation surface of the article store
type ArticleStore interface {
	Articles(topic string, limit int) []domain.Article
	Topics() []store.TopicInfo
	LastFetched() time.Time
	Count() int
	RemoveLink(link string) bool
	Snapshot() store.Snapshot
}

// Scheduler triggers background pipeline runs
type Scheduler interface {
	TriggerNow() bool
	Running() bool
}

// Maintenance exposes on-demand pipeline passes
type Maintenance interface {
	RunDedup() error
	Retag() error
}

// Sources manages the operator-editable lists
type Sources interface {
	FeedURLs() ([]string, error)
	AddFeedURL(url string) error
	RemoveFeedURL(url string) error
	AddRemoved(link string) error
}

// CacheWriter persists store snapshots after moderation changes
type CacheWriter interface {
	Save(snap store.Snapshot) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Generator renders articles as RSS
type Generator interface {
	GenerateRSS(articles []domain.Article, topic string) (string, error)
}

// Server represents HTTP server instance
type Server struct {
	config      ConfigProvider
	articles    ArticleStore
	scheduler   Scheduler
	maintenance Maintenance
	sources     Sources
	cache       CacheWriter
	generator   Generator
	version     string
	debug       bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Deps bundles server dependencies
type Deps struct {
	Config      ConfigProvider
	Articles    ArticleStore
	Scheduler   Scheduler
	Maintenance Maintenance
	Sources     Sources
	Cache       CacheWriter
	Generator   Generator
	Version     string
	Debug       bool
}

// New initializes a new server instance
func New(deps Deps) *Server {
	s := &Server{
		config:      deps.Config,
		articles:    deps.Articles,
		scheduler:   deps.Scheduler,
		maintenance: deps.Maintenance,
		sources:     deps.Sources,
		cache:       deps.Cache,
		generator:   deps.Generator,
		version:     deps.Version,
		debug:       deps.Debug,
		router:      routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("brightside", "brightside-news", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /articles", s.articlesHandler)
		r.HandleFunc("GET /topics", s.topicsHandler)
		r.HandleFunc("POST /refresh", s.refreshHandler)
		r.HandleFunc("POST /dedup", s.dedupHandler)
		r.HandleFunc("POST /retag", s.retagHandler)
		r.HandleFunc("GET /feeds", s.listFeedsHandler)
		r.HandleFunc("POST /feeds", s.addFeedHandler)
		r.HandleFunc("DELETE /feeds", s.removeFeedHandler)
		r.HandleFunc("POST /articles/remove", s.removeArticleHandler)
	})

	// RSS routes
	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{topic}", s.rssHandler)
}
