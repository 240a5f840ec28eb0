package server

import (
	"io"

	"github.com/rstltd/cg500-blueteeth-app/internal/api/handlers"
	"github.com/rstltd/cg500-blueteeth-app/internal/api/middleware"
	"github.com/rstltd/cg500-blueteeth-app/internal/catalog"
	"github.com/rstltd/cg500-blueteeth-app/internal/config"
	"github.com/rstltd/cg500-blueteeth-app/internal/logging"
	"github.com/rstltd/cg500-blueteeth-app/internal/store"

	"github.com/gin-gonic/gin"
)

// Server represents the HTTP update server
type Server struct {
	router  *gin.Engine
	cfg     *config.Config
	catalog *catalog.Catalog
	store   *store.Store
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, cat *catalog.Catalog, st *store.Store) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	router := gin.New()

	// Always add recovery middleware for panic handling
	router.Use(gin.Recovery())

	return &Server{
		router:  router,
		cfg:     cfg,
		catalog: cat,
		store:   st,
	}
}

// Router exposes the configured engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Init wires middleware, handlers and routes.
func (s *Server) Init() {
	// Create handlers
	updateHandler := handlers.NewUpdateHandler(s.catalog)
	artifactHandler := handlers.NewArtifactHandler(s.store)
	statsHandler := handlers.NewStatsHandler(s.catalog, s.store)
	healthHandler := handlers.NewHealthHandler()

	// Add global middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		RPS:   s.cfg.RateLimitRPS,
		Burst: s.cfg.RateLimitBurst,
	}))
	s.router.Use(middleware.RequestLogger())

	// Health check endpoint
	s.router.GET("/health", healthHandler.Check)

	// Update negotiation API
	api := s.router.Group("/api")
	{
		api.GET("/version", updateHandler.CheckVersion)
		api.GET("/download/:filename", artifactHandler.Download)
		api.GET("/stats", statsHandler.Stats)
	}

	// Publishing API
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/releases", updateHandler.PublishRelease)
	}
}

// Start starts the server
func (s *Server) Start() error {
	logger := logging.GetGlobalLogger()
	logger.Info("Update server listening on %s", s.cfg.Addr())
	return s.router.Run(s.cfg.Addr())
}
