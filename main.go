package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitwise74/recipe-api/app"
	"bitwise74/recipe-api/config"
	"bitwise74/recipe-api/db"
	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	if err := config.Setup(); err != nil {
		panic(err)
	}

	if err := app.SetupLogger(viper.GetString("app.log_level")); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if viper.GetBool("wait-for-db") {
		if err := waitForDB(ctx); err != nil {
			zap.L().Fatal("Database never became available", zap.Error(err))
		}
		return
	}

	if email := viper.GetString("create-superuser"); email != "" {
		if err := createSuperuser(ctx, email); err != nil {
			zap.L().Fatal("Failed to create superuser", zap.Error(err))
		}
		return
	}

	d, err := app.NewDeps(ctx)
	if err != nil {
		zap.L().Fatal("Failed to initialize", zap.Error(err))
	}

	// Expired refresh tokens are useless, drop them once an hour
	service.TokenCleanup(ctx, time.Hour, d.DB)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", viper.GetInt("host.port")),
		Handler:           app.NewRouter(d, app.NewCacheStore()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("Server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Graceful shutdown failed", zap.Error(err))
	}
}

func waitForDB(ctx context.Context) error {
	gdb, err := db.Open()
	if err != nil {
		return err
	}

	zap.L().Info("Waiting for database...")
	return db.Wait(ctx, gdb, viper.GetDuration("db.wait_timeout"))
}

func createSuperuser(ctx context.Context, email string) error {
	password := os.Getenv("SUPERUSER_PASSWORD")
	if password == "" {
		return errors.New("SUPERUSER_PASSWORD is not set")
	}

	gdb, err := db.New(ctx)
	if err != nil {
		return err
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		user, err := service.CreateSuperuser(tx, security.New(), email, password)
		if err != nil {
			return err
		}

		zap.L().Info("Superuser created", zap.String("id", user.ID), zap.String("email", user.Email))
		return nil
	})
}
