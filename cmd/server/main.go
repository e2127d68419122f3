package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ChrononAI/chronon-web-sub001/internal/config"
	"github.com/ChrononAI/chronon-web-sub001/internal/handler"
	"github.com/ChrononAI/chronon-web-sub001/internal/lineitems"
	"github.com/ChrononAI/chronon-web-sub001/internal/repository/postgres"
	"github.com/ChrononAI/chronon-web-sub001/internal/router"
	"github.com/ChrononAI/chronon-web-sub001/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	taxCodeRepo := postgres.NewTaxCodeRepo(db)
	itemRepo := postgres.NewItemRepo(db)

	// The item catalog is loaded exactly once at start-up.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	catalog, err := itemRepo.GetItems(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to load item catalog: %w", err)
	}
	log.Printf("loaded %d catalog items", len(catalog))

	engineCfg := lineitems.Config{
		Debounce:      time.Duration(cfg.Engine.DebounceMS) * time.Millisecond,
		MinSearchLen:  cfg.Engine.MinSearchLen,
		CacheSize:     cfg.Engine.CacheSize,
		SearchTimeout: cfg.Engine.SearchTimeout,
	}

	// Initialize services
	sessionSvc := service.NewSessionService(taxCodeRepo, catalog, engineCfg)
	codeSvc := service.NewCodeService(taxCodeRepo, itemRepo, cfg.Engine.MinSearchLen)

	// Initialize handlers
	sessionH := handler.NewSessionHandler(sessionSvc)
	codeH := handler.NewCodeHandler(codeSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(sessionH, codeH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
