package main

import (
	"context"
	"database/sql"
	"expvar"
	"flag"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/bks/clubcoordinator/internal/config"
	"github.com/bks/clubcoordinator/internal/data"
	"github.com/bks/clubcoordinator/internal/mailer"
	"github.com/bks/clubcoordinator/internal/report"
	"github.com/bks/clubcoordinator/internal/uploads"
	"github.com/go-co-op/gocron/v2"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
)

const version = "1.0.0"

type application struct {
	logger    zerolog.Logger
	config    *config.Config
	models    data.Models
	mailer    mailer.Mailer
	uploads   uploads.Store
	reports   *report.Service
	scheduler gocron.Scheduler
	wg        sync.WaitGroup
}

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	displayVersion := flag.Bool("version", false, "Show API version and immediately exit")
	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version: %s\n", version)
		os.Exit(0)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot load configuration")
	}
	if cfg.App.Environment == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	}

	db, err := openDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot open database connection pool")
	}
	defer db.Close()
	logger.Info().Msg("database connection pool established")

	uploadStore, err := uploads.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.MaxFileSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot initialize upload directory")
	}

	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("database", expvar.Func(func() any {
		return db.Stats()
	}))
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))

	models := data.NewModels(db)

	app := &application{
		logger:  logger,
		config:  cfg,
		models:  models,
		uploads: uploadStore,
		reports: report.NewService(report.NewModelStore(models), logger),
		mailer: mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password,
			cfg.SMTP.Sender),
	}

	if err := app.startReminderScheduler(); err != nil {
		logger.Fatal().Err(err).Msg("cannot start reminder scheduler")
	}

	err = app.serve()
	if err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	duration, err := time.ParseDuration(cfg.Database.MaxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}
