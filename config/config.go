// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "local"}
	validDBDrivers    = []string{"sqlite", "postgres"}
	validCacheTypes   = []string{"memory", "redis"}
)

func init() {
	pflag.Bool("wait-for-db", false, "Waits until the database is reachable and exits")
	pflag.String("create-superuser", "", "Creates a staff user with this email, the password is read from SUPERUSER_PASSWORD")
}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func bindEnvs() {
	v.BindEnv("app.log_level", "APP_LOG_LEVEL")

	v.BindEnv("host.port", "HOST_PORT")
	v.BindEnv("host.cors", "HOST_CORS")

	v.BindEnv("db.driver", "DB_DRIVER")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.wait_timeout", "DB_WAIT_TIMEOUT")

	v.BindEnv("jwt.secret", "JWT_SECRET")
	v.BindEnv("jwt.access_ttl", "JWT_ACCESS_TTL")
	v.BindEnv("jwt.refresh_ttl", "JWT_REFRESH_TTL")

	v.BindEnv("security.rate_limit", "SECURITY_RATE_LIMIT")
	v.BindEnv("security.turnstile.enabled", "SECURITY_TURNSTILE_ENABLED")
	v.BindEnv("security.turnstile.secret_token", "SECURITY_TURNSTILE_SECRET_TOKEN")

	v.BindEnv("cache.type", "CACHE_TYPE")
	v.BindEnv("cache.redis_addr", "CACHE_REDIS_ADDR")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.local_dir", "STORAGE_LOCAL_DIR")
	v.BindEnv("storage.public_url", "STORAGE_PUBLIC_URL")

	v.BindEnv("s3.access_key", "S3_ACCESS_KEY")
	v.BindEnv("s3.secret_access_key", "S3_SECRET_ACCESS_KEY")
	v.BindEnv("s3.bucket", "S3_BUCKET")
	v.BindEnv("s3.region", "S3_REGION")
	v.BindEnv("s3.endpoint", "S3_ENDPOINT")

	v.BindEnv("upload.max_size", "UPLOAD_MAX_SIZE")
}

func setDefaults() {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8000)
	v.SetDefault("host.cors", "http://localhost:3000")

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")
	v.SetDefault("db.wait_timeout", "60s")

	v.SetDefault("jwt.access_ttl", "5m")
	v.SetDefault("jwt.refresh_ttl", "24h")

	v.SetDefault("security.rate_limit", 10)
	v.SetDefault("security.turnstile.enabled", false)

	v.SetDefault("cache.type", "memory")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "media")
	v.SetDefault("storage.public_url", "/media")

	v.SetDefault("upload.max_size", 5)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	bindEnvs()
	setDefaults()

	// The config file is optional, env and defaults are enough to run
	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if err := validate(); err != nil {
		return err
	}

	if !v.GetBool("security.turnstile.enabled") {
		fmt.Println("[WARNING]: Cloudflare's turnstile is disabled. Registration won't be guarded against bots")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}

func validate() error {
	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("no database dsn provided")
	}

	if v.GetDuration("db.wait_timeout") <= 0 {
		return errors.New("db.wait_timeout must be bigger than 0")
	}

	if v.GetDuration("jwt.access_ttl") <= 0 || v.GetDuration("jwt.refresh_ttl") <= 0 {
		return errors.New("token lifetimes must be bigger than 0")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetBool("security.turnstile.enabled") && v.GetString("security.turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	switch v.GetString("cache.type") {
	case "redis":
		if v.GetString("cache.redis_addr") == "" {
			return errors.New("no redis address provided")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid cache type provided, expected one of %v", validCacheTypes)
	}

	switch v.GetString("storage.type") {
	case "s3":
		if v.GetString("s3.access_key") == "" {
			return errors.New("access key can't be empty")
		}
		if v.GetString("s3.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("s3.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("s3.region") == "" {
			return errors.New("region can't be empty")
		}
	case "local":
		if v.GetString("storage.local_dir") == "" {
			return errors.New("storage directory can't be empty")
		}
	default:
		return fmt.Errorf("invalid storage type provided, expected one of %v", validStorageTypes)
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	return nil
}
