// Package main is the entry point for the Study Circle API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Shimizu-Technology/study-circle-api/internal/config"
	"github.com/Shimizu-Technology/study-circle-api/internal/database"
	"github.com/Shimizu-Technology/study-circle-api/internal/handlers"
	"github.com/Shimizu-Technology/study-circle-api/internal/router"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/catalog"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/fetch"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/ncert"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdf"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/pdfcache"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/storage"
	"github.com/Shimizu-Technology/study-circle-api/internal/services/summary"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("🚀 Study Circle API %s starting...", Version)
	handlers.Version = Version

	// Step 1: Load Configuration
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	log.Printf("📋 Config loaded: port=%s, gin_mode=%s, cache_dir=%s", cfg.Port, cfg.GinMode, cfg.NCERTCacheDir)

	os.Setenv("GIN_MODE", cfg.GinMode)

	// Step 2: Connect to the live catalog (optional)
	var (
		db   *database.DB
		live catalog.Source
	)
	if cfg.LiveCatalogConfigured() {
		db, err = database.New(cfg.DatabaseURL)
		if err != nil {
			log.Printf("⚠️  Live catalog unavailable, serving the static catalog only: %v", err)
		} else {
			defer db.Close()
			log.Println("✅ Database connected")
			if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
				log.Fatalf("❌ Migration failed: %v", err)
			}
			live = catalog.NewLiveSource(db)
		}
	} else {
		log.Println("⚠️  DATABASE_URL not set; serving the static catalog only")
	}

	// Step 3: Create Services
	client := fetch.New("")
	fetchPDF := client.WithTimeout(cfg.PDFTimeout)
	fetchText := client.WithTimeout(cfg.TextTimeout)

	cache := pdfcache.New(cfg.NCERTCacheDir)
	resolver := catalog.NewResolver(live, catalog.NewStaticSource(cfg.NCERTPDFBaseURL))
	pipeline := ncert.NewPipeline(resolver, cache, fetchPDF, fetchText, pdf.Options{
		MaxPages: cfg.ExtractMaxPages,
		MaxChars: cfg.ExtractMaxChars,
	})
	log.Printf("📚 Catalog source: %s", resolver.ActiveSource())

	ctx := context.Background()
	gen, err := summary.NewGenerator(ctx, cfg)
	switch {
	case errors.Is(err, summary.ErrNotConfigured):
		log.Println("⚠️  Study summaries disabled (set OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY)")
	case err != nil:
		log.Printf("⚠️  Study summaries disabled: %v", err)
	default:
		log.Printf("✅ Study summaries enabled (model: %s)", gen.Model())
	}

	h := &handlers.Handler{
		Catalog:      resolver,
		Titles:       ncert.NewTitleService(cache, fetchPDF),
		Cache:        cache,
		FetchPDF:     fetchPDF,
		Study:        summary.NewStudyService(gen, pipeline, resolver),
		Bucket:       storage.NewBucket(cfg.StorageDir, cfg.PublicBaseURL),
		AllowedHosts: cfg.AllowedPDFHosts,
	}
	if db != nil {
		h.DB = db
	}

	// Step 4: Setup HTTP Router
	r := router.Setup(h, cfg)

	// Step 5: Start the HTTP Server
	// WriteTimeout covers a full summary generation or a cold PDF download.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Printf("📖 Health check: http://localhost:%s/api/v1/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 6: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("🛑 Received signal %v, shutting down gracefully...", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Println("👋 Server stopped. Goodbye!")
}
