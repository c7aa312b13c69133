package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TokenCleanup periodically deletes expired refresh tokens until ctx is
// cancelled
func TokenCleanup(ctx context.Context, t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := PurgeExpiredTokens(db, now)
				if err != nil {
					zap.L().Error("Failed to clean up expired refresh tokens", zap.Error(err))
					continue
				}

				if n > 0 {
					zap.L().Debug("Cleaned up expired refresh tokens", zap.Int64("count", n))
				}
			}
		}
	}()
}
