package main

import (
	"os"

	"github.com/rstltd/cg500-blueteeth-app/internal/catalog"
	"github.com/rstltd/cg500-blueteeth-app/internal/config"
	"github.com/rstltd/cg500-blueteeth-app/internal/logging"
	"github.com/rstltd/cg500-blueteeth-app/internal/server"
	"github.com/rstltd/cg500-blueteeth-app/internal/store"
)

func main() {
	// Load configuration from environment and .env files
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Initialize logger configuration
	logConfig := &logging.Config{
		File:       cfg.LogFile,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
	}

	if err := logging.InitLogger(logConfig); err != nil {
		panic(err)
	}
	logger := logging.GetGlobalLogger()
	defer logger.Close()

	logger.Info("Starting CG500 update server in %s mode", cfg.Environment)

	// Initialize artifact store, creating the APK directory if needed
	artifactStore, err := store.New(cfg.APKDir)
	if err != nil {
		logger.Error("Failed to initialize artifact store: %v", err)
		os.Exit(1)
	}

	// Load the release catalog. A catalog without a default entry is a
	// configuration error and the server must not accept traffic.
	var releaseCatalog *catalog.Catalog
	if cfg.CatalogFile != "" {
		releaseCatalog, err = catalog.Load(cfg.CatalogFile)
		if err != nil {
			logger.Error("Failed to load release catalog: %v", err)
			os.Exit(1)
		}
		logger.Info("Loaded release catalog from %s (%d cohorts)", cfg.CatalogFile, len(releaseCatalog.Cohorts()))
	} else {
		releaseCatalog, err = catalog.New(catalog.DefaultEntries())
		if err != nil {
			logger.Error("Failed to build release catalog: %v", err)
			os.Exit(1)
		}
		logger.Info("Using built-in release catalog")
	}

	logStartupBanner(logger, cfg, artifactStore, releaseCatalog)

	// Create and start server
	srv := server.NewServer(cfg, releaseCatalog, artifactStore)
	srv.Init()

	if err := srv.Start(); err != nil {
		logger.Error("Failed to start server: %v", err)
		os.Exit(1)
	}
}

func logStartupBanner(logger *logging.Logger, cfg *config.Config, st *store.Store, cat *catalog.Catalog) {
	logger.Info("APK directory: %s", st.Root())
	logger.Info("Default cohort latest version: %s", cat.Default().Version)

	files, err := st.List()
	if err != nil {
		logger.Warn("Failed to list APK files: %v", err)
		return
	}

	if len(files) == 0 {
		logger.Warn("No APK files found. Add APK files to %s before serving downloads.", st.Root())
	} else {
		logger.Info("Found %d APK files:", len(files))
		for _, name := range files {
			logger.Info("  - %s", name)
		}
	}

	logger.Info("Endpoints: GET /api/version | GET /api/download/:filename | GET /api/stats | GET /health")
	logger.Info("Example: curl -H 'Current-Version: 1.0.0' -H 'Platform: android' http://localhost:%s/api/version", cfg.Port)
}
