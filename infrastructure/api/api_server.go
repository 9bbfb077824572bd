package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"

	"github.com/helixml/newsdesk"
	"github.com/helixml/newsdesk/infrastructure/api/middleware"
	v1 "github.com/helixml/newsdesk/infrastructure/api/v1"
	"github.com/helixml/newsdesk/internal/mcp"
)

// Version is reported by the service info endpoint.
var Version = "dev"

// APIServer provides the HTTP API backed by a newsdesk Client.
type APIServer struct {
	client      *newsdesk.Client
	corsOrigins []string
	server      *Server
}

// NewAPIServer creates an APIServer. Mutating endpoints require one of the
// client's API keys when any are configured; the MCP endpoint only reads. corsOrigins lists allowed
// browser origins; empty disables CORS headers.
func NewAPIServer(client *newsdesk.Client, corsOrigins []string) *APIServer {
	return &APIServer{
		client:      client,
		corsOrigins: corsOrigins,
	}
}

// mountRoutes wires every route on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	if len(a.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: a.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.APIKeyHeader, middleware.CorrelationIDHeader},
			ExposedHeaders: []string{middleware.CorrelationIDHeader},
			MaxAge:         300,
		}))
	}

	router.Get("/", a.info)
	router.Get("/health", a.health)
	router.Get("/healthz", a.health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(120 * time.Second))
		r.Use(middleware.WriteProtectAuth(c.APIKeys()))

		r.Mount("/articles", v1.NewArticlesRouter(c).Routes())
		r.Mount("/industries", v1.NewIndustriesRouter(c).Routes())
		r.Mount("/keywords", v1.NewKeywordsRouter(c).Routes())
	})

	// MCP keeps its own session state in response headers and streams, so it
	// sits outside the timeout middleware.
	mcpSrv := mcp.NewServer(c.Entities, c.Filter, c.PageSize(), Version, c.Logger())
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

// Handler returns a router with all routes and middleware, for use with
// custom servers and tests.
func (a *APIServer) Handler() http.Handler {
	server := NewServer("", a.client.Logger())
	a.mountRoutes(server.Router())
	return server.Router()
}

// ListenAndServe serves on addr until Shutdown.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.client.Logger())
	a.server = &server
	a.mountRoutes(server.Router())
	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

func (a *APIServer) info(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"name":    "newsdesk",
		"version": Version,
	})
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
