package main

import (
	"fmt"
	"os"

	"go-chart-dashboard/internal/api"
	"go-chart-dashboard/internal/api/handler"
	"go-chart-dashboard/internal/config"
	"go-chart-dashboard/internal/dashboard"
	"go-chart-dashboard/internal/store"
	"go-chart-dashboard/internal/suggest"
	"go-chart-dashboard/pkg/router"
)

// @title Chart Dashboard API
// @version 1.0
// @description Session-scoped chart dashboards over uploaded CSV and Excel datasets
// @BasePath /api/v1
func main() {
	cfg, err := config.Load(os.Getenv("DASH_CONFIG"))
	if err != nil {
		panic(err)
	}

	// Init snapshot store
	gateway, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		panic(err)
	}

	registry := dashboard.NewRegistry(gateway, cfg.SaveQuiet())

	var suggester handler.Suggester
	if cfg.Suggest.APIKey != "" {
		suggester = suggest.New(cfg.Suggest)
	} else {
		fmt.Printf("📊 Suggestions disabled, no API key configured\n")
	}

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r, handler.New(registry, suggester))

	// Start server
	r.Start(cfg.Addr)
}
