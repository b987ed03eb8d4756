// Package webui is the local web gateway: a small chi server that exposes
// the backend through a browser page on localhost, including a WebSocket
// chat relay with markdown rendering.
package webui

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/minpaixinyu/minpai/internal/api"
)

// Config holds gateway configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server is the local gateway in front of one backend client.
type Server struct {
	cfg        Config
	client     *api.Client
	router     chi.Router
	httpServer *http.Server
}

// New creates a gateway server backed by the given client.
func New(cfg Config, client *api.Client) *Server {
	s := &Server{
		cfg:    cfg,
		client: client,
	}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.servePage("home", "AI 文化助手"))
	r.Get("/ai-chat", s.servePage("home", "AI 文化助手"))
	r.Get("/map", s.servePage("map", "福建地图"))
	r.Get("/quiz", s.servePage("quiz", "知识问答"))
	r.Get("/ebook", s.servePage("ebook", "电子书"))
	r.Get("/user-center", s.servePage("user-center", "用户中心"))
	r.Get("/city/{name}", s.serveCityPage)
	r.Get("/api/session", s.handleSession)
	r.Get("/api/cities", s.handleCities)
	r.Get("/api/cities/{name}", s.handleCity)
	r.Get("/api/map", s.handleMap)
	r.Get("/api/explorations", s.handleExplorations)
	r.Post("/api/explore/{name}", s.handleExplore)
	r.Get("/api/questions", s.handleQuestions)
	r.Get("/ws/chat", s.handleChatWS)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("minpai gateway listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
