// Package db opens the database and keeps its schema up to date
package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/pkg/util"

	"github.com/pressly/goose/v3"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Open connects to the database selected by db.driver without touching the
// schema
func Open() (*gorm.DB, error) {
	dsn := viper.GetString("db.dsn")
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch driver := viper.GetString("db.driver"); driver {
	case "sqlite":
		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInContainer() && dsn != ":memory:" {
			if _, err := os.Stat(dsn); errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to %s", dsn)
			}
		}

		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}

		gdb, err := gorm.Open(sqlite.Open(dsn+sep+"_foreign_keys=on"), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
		}

		// SQLite serializes writers anyway and every :memory: connection
		// would get its own database
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)

		return gdb, nil
	case "postgres":
		gdb, err := gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres database, %w", err)
		}
		return gdb, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// New opens the database and brings its schema up to date
func New(ctx context.Context) (*gorm.DB, error) {
	gdb, err := Open()
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// Migrate applies the embedded goose migrations on Postgres. SQLite is only
// used for development and tests so its schema comes from the models.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	if gdb.Dialector.Name() != "postgres" {
		err := gdb.AutoMigrate(
			&model.User{},
			&model.UserProfile{},
			&model.Tag{},
			&model.Ingredient{},
			&model.Recipe{},
			&model.RefreshToken{},
		)
		if err != nil {
			return fmt.Errorf("failed to automigrate tables, %w", err)
		}
		return nil
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations, %w", err)
	}

	return nil
}
