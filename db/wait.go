package db

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Wait pings the database every second until it answers or timeout passes
func Wait(ctx context.Context, gdb *gorm.DB, timeout time.Duration) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	b := retry.WithMaxDuration(timeout, retry.NewConstant(time.Second))

	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			zap.L().Info("Database unavailable, waiting 1 second...", zap.Error(err))
			return retry.RetryableError(err)
		}

		zap.L().Info("Database available")
		return nil
	})
}
