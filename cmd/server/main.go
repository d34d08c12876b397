package main

import (
	"context"
	"errors"
	"flag"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/UkralStul/threaded-board/internal/api"
	"github.com/UkralStul/threaded-board/internal/api/handler"
	"github.com/UkralStul/threaded-board/internal/config"
	"github.com/UkralStul/threaded-board/internal/pkg/database"
	"github.com/UkralStul/threaded-board/internal/pkg/logger"
	"github.com/UkralStul/threaded-board/internal/service"
	"github.com/UkralStul/threaded-board/internal/storage"
	"github.com/UkralStul/threaded-board/internal/storage/inmemory"
	"github.com/UkralStul/threaded-board/internal/storage/postgres"

	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (default: configs/config.yaml if present)")
	storageType := flag.String("storage", "", "Storage type (inmemory or postgres), overrides storage.driver")
	seed := flag.Bool("seed", false, "Fill the store with demo data on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath, config.WithStorageDriver(*storageType))
	if err != nil {
		log.Error("Fatal error: failed to load config", "err", err)
		os.Exit(1)
	}

	logger.InitLogger(os.Stdout, cfg.Log.Level)

	if err := run(cfg, *seed); err != nil {
		log.Error("App exited with error", "err", err)
		os.Exit(1)
	}
	log.Info("App exited successfully.")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.Storage.Driver == config.DriverInMemory {
		log.Info("Starting with in-memory storage")
		return inmemory.New(), nil
	}

	log.Info("Starting with postgres storage")
	db, err := database.NewGormDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	store := postgres.New(db)
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
	}
	return store, nil
}

func run(cfg *config.Config, seed bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := service.Options{
		DefaultPageSize:  cfg.Pagination.DefaultSize,
		MaxPageSize:      cfg.Pagination.MaxSize,
		StrictPostLookup: cfg.Comments.StrictPostLookup,
	}
	posts := service.NewPostService(store, opts)
	comments := service.NewCommentService(store, opts)

	if seed {
		if err := fillWithMockData(ctx, posts, comments); err != nil {
			return err
		}
	}

	router := api.NewRouter(api.Deps{
		Posts:    posts,
		Comments: comments,
		Health:   store,
		Pagination: handler.Pagination{
			DefaultSize: cfg.Pagination.DefaultSize,
			MaxSize:     cfg.Pagination.MaxSize,
		},
	})

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig.String())
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
