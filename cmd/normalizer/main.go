package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"icon-normalizer/internal/common/config"
	"icon-normalizer/internal/common/middleware"
	"icon-normalizer/internal/normalizer/handlers"
	"icon-normalizer/internal/normalizer/repository"
	"icon-normalizer/internal/normalizer/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Normalizer Service
// ============================================================

func main() {
	cfg := config.Load()

	db, err := repository.OpenSQLite(cfg.ItemsDBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), "migrations/001_init_items.sql"); err != nil {
		log.Fatalf("init db: %v", err)
	}

	batch := service.NewBatchService(repo, cfg.Precision, cfg.TargetSize)
	iconsHandler := handlers.NewIconsHandler(batch, cfg.TargetSize)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Normalizer Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Normalizer Routes
	// ============================================================

	app.Post("/icons", iconsHandler.Upload)
	app.Get("/icons", iconsHandler.List)
	app.Get("/icons/:id", iconsHandler.Get)
	app.Delete("/icons", iconsHandler.Clear)
	app.Post("/normalize", iconsHandler.Normalize)
	app.Get("/archive", iconsHandler.DownloadArchive)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Normalizer Service on %s (env: %s, target: %vpx)", addr, cfg.Environment, cfg.TargetSize)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
