// Package database opens the Postgres connection and migrates the storefront schema.
package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/imrishuroy/bakery-storefront/internal/logger"
)

const (
	defaultAttempts = 10
	defaultBackoff  = 2 * time.Second
)

// Connect opens dsn with retries and auto-migrates models.
func Connect(dsn string, models ...interface{}) (*gorm.DB, error) {
	return Open(postgres.Open(dsn), defaultAttempts, defaultBackoff, models...)
}

// Open connects through dialector, retrying with linear backoff, then migrates models.
func Open(dialector gorm.Dialector, attempts int, backoff time.Duration, models ...interface{}) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err == nil {
			if sqlDB, poolErr := db.DB(); poolErr == nil {
				sqlDB.SetMaxOpenConns(25)
				sqlDB.SetMaxIdleConns(5)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
			}
			logger.Log.Info("Connected to PostgreSQL successfully")

			if len(models) > 0 {
				if err := db.AutoMigrate(models...); err != nil {
					return nil, fmt.Errorf("AutoMigrate failed: %w", err)
				}
			}
			return db, nil
		}

		logger.Log.Warn("DB connection failed, retrying",
			zap.Int("attempt", i+1),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i+1) * backoff)
	}
	return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
}
