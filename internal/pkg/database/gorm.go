package database

import (
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/UkralStul/threaded-board/internal/config"
	"github.com/UkralStul/threaded-board/internal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewGormDB opens a PostgreSQL connection pool configured from cfg and checks
// that the server answers.
func NewGormDB(ctx context.Context, cfg *config.DBConfig) (*gorm.DB, error) {
	return open(ctx, postgres.Open(cfg.DSN), cfg)
}

func open(ctx context.Context, dialector gorm.Dialector, cfg *config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		// pinged below with ctx
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	log.Info("Database connection established successfully.")
	return db, nil
}
