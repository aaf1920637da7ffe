package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-redis/redis/v8"

	"github.com/mind-engage/mindengage-school/internal/analytics"
	api "github.com/mind-engage/mindengage-school/internal/api/http"
	"github.com/mind-engage/mindengage-school/internal/audit"
	"github.com/mind-engage/mindengage-school/internal/config"
	"github.com/mind-engage/mindengage-school/internal/db"
	"github.com/mind-engage/mindengage-school/internal/exam"
	"github.com/mind-engage/mindengage-school/internal/fees"
	"github.com/mind-engage/mindengage-school/internal/grading"
	"github.com/mind-engage/mindengage-school/internal/roster"
	"github.com/mind-engage/mindengage-school/internal/staff"
	"github.com/mind-engage/mindengage-school/internal/timetable"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	log := newLogger(cfg)
	slog.SetDefault(log)

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Error("db open failed", "err", err)
		os.Exit(1)
	}
	defer dbh.Close()

	// --- Roster ---
	students, err := openRoster(ctx, cfg, dbh)
	if err != nil {
		log.Error("roster", "driver", cfg.RosterDriver, "err", err)
		os.Exit(1)
	}
	if cfg.RosterSeedXLSX != "" {
		if err := seedRoster(ctx, cfg.RosterSeedXLSX, students); err != nil {
			log.Error("roster seed failed", "file", cfg.RosterSeedXLSX, "err", err)
			os.Exit(1)
		}
	}

	// --- Assessment core ---
	reg := exam.NewRegistry(time.Now)
	ledger := exam.NewLedger(reg, students)
	deps := api.Deps{
		Students:   students,
		Exams:      reg,
		Ledger:     ledger,
		Grading:    grading.NewEngine(reg, ledger, students),
		Analyzer:   analytics.NewAnalyzer(ledger, students),
		Fees:       fees.NewBook(students, cfg.DefaultFee, time.Now),
		Staff:      staff.NewDirectory(),
		Timetables: timetable.NewBook(),
		Log:        log,
	}
	if cfg.EnableAudit {
		events := audit.NewEventRepo(dbh)
		deps.Audit, deps.Events = events, events
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	api.Mount(r, deps)

	log.Info("listening", "addr", cfg.HTTPAddr, "db", cfg.DBDriver, "roster", cfg.RosterDriver, "audit", cfg.EnableAudit)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func openRoster(ctx context.Context, cfg config.Config, dbh *sql.DB) (roster.Store, error) {
	switch cfg.RosterDriver {
	case config.RosterMemory, "":
		return roster.NewMemory(), nil
	case config.RosterSQL:
		return roster.NewSQLStore(dbh), nil
	case config.RosterRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return roster.NewRedisStore(client), nil
	default:
		return nil, fmt.Errorf("unsupported roster driver %q", cfg.RosterDriver)
	}
}

func seedRoster(ctx context.Context, path string, store roster.Store) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	res, err := roster.ImportXLSX(ctx, f, store)
	if err != nil {
		return err
	}
	slog.Info("roster seeded", "file", path, "imported", res.Imported, "skipped", len(res.Skipped))
	return nil
}
