package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"frame-sketch/internal/common/config"
	"frame-sketch/internal/common/middleware"
	"frame-sketch/internal/sheets/handlers"
	"frame-sketch/internal/sheets/repository"
	"frame-sketch/internal/sheets/session"
	"frame-sketch/internal/sheets/solver"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Sheets Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3003"
	}

	db, err := repository.OpenSQLite(cfg.SheetsDBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	sessions := session.NewManager()
	solverClient := solver.New(cfg.SolverURL, cfg.UnitSystem)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Sheets Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("SHEETS"))
	if !cfg.IsProduction() {
		app.Use(middleware.CORS(cfg.CORSOrigins...))
	}

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		if err := db.PingContext(context.Background()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready"})
		}
		return c.JSON(fiber.Map{"status": "ready", "sessions": sessions.Len()})
	})

	// ============================================================
	// Sheet & Session Routes
	// ============================================================

	handlers.Register(app,
		handlers.NewSheetsHandler(repo, sessions, solverClient),
		handlers.NewSessionsHandler(repo, sessions, solverClient),
	)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Sheets Service on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Solver at %s (units: %s)", cfg.SolverURL, cfg.UnitSystem)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
