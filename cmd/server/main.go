package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/api"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/config"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/feed"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/ingestion"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/logging"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/metrics"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/server"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/statestore"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/topics"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/trending"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"log/slog"
)

func main() {
	// Local development convenience, ignored when no .env file exists.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting activity stream service")

	// Client state persists in Postgres when a DSN is configured, in memory
	// otherwise.
	var store statestore.Store
	if cfg.Database.DSN != "" {
		logger.Info("connecting to database")
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		pgStore := statestore.NewPostgresStore(db)
		if err := pgStore.Migrate(context.Background()); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		store = pgStore
		logger.Info("database connected")
	} else {
		logger.Info("no database configured, using in-memory state store")
		store = statestore.NewMemoryStore()
	}

	var transformers []ingestion.Transformer
	if cfg.Refresh.SnapshotPath != "" {
		transformers = append(transformers,
			ingestion.NewSnapshotFileTransformer("snapshot-file", cfg.Refresh.SnapshotPath))
		logger.Info("serving activities from snapshot file", "path", cfg.Refresh.SnapshotPath)
	} else {
		logger.Warn("no snapshot path configured, feed starts empty")
	}
	pipeline := ingestion.NewPipeline(logger, transformers...)

	threader := feed.NewThreader(feed.ThreadingConfig{
		ScanWindow:        cfg.Threading.ScanWindow,
		MaxReplyAge:       cfg.Threading.MaxReplyAge,
		MaxVisibleReplies: cfg.Threading.MaxVisibleReplies,
	})
	extractor := topics.NewExtractor(topics.Options{})
	scorer := trending.NewScorer(trending.Config{
		ViewWeight:       cfg.Trending.ViewWeight,
		LikeWeight:       cfg.Trending.LikeWeight,
		CommentWeight:    cfg.Trending.CommentWeight,
		ReadingWeight:    cfg.Trending.ReadingWeight,
		MinViews:         cfg.Trending.MinViews,
		WeeklyThreshold:  cfg.Trending.WeeklyThreshold,
		MonthlyThreshold: cfg.Trending.MonthlyThreshold,
	})

	collector, err := metrics.NewHTTPCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	snapshot := api.NewSnapshot(threader, extractor)
	if doc := statestore.LoadSearchHistory(context.Background(), store, logger); len(doc.Entries) > 0 {
		snapshot.SeedSearchHistory(doc.Entries)
		logger.Info("restored search history", "entries", len(doc.Entries))
	}

	refresh := func(ctx context.Context) {
		items := pipeline.Refresh(ctx)
		sorted, err := feed.Aggregate(items, models.FeedQuery{})
		if err != nil {
			logger.Error("failed to aggregate feed", "error", err)
			return
		}
		snapshot.Update(sorted)
		collector.ObserveRefresh(len(sorted))
		logger.Info("feed refreshed", "items", len(sorted))
	}
	refresh(context.Background())

	go func() {
		ticker := time.NewTicker(cfg.Refresh.Interval)
		defer ticker.Stop()
		for range ticker.C {
			refresh(context.Background())
		}
	}()

	mux := http.NewServeMux()
	api.SetupRoutes(mux, snapshot, scorer, store, collector, logger)

	srv := server.New(cfg.Server, logger, collector.InstrumentHandler(mux))

	go func() {
		logger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("API available", "url", fmt.Sprintf("http://localhost:%s", cfg.Server.Port))

	waitForSignal(logger)

	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func waitForSignal(logger *slog.Logger) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	sig := <-c
	logger.Info("received signal", "signal", sig.String())
	signal.Stop(c)
	close(c)
}
