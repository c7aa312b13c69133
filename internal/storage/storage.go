// Package storage keeps uploaded images either on local disk or in an S3
// compatible bucket
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

var ErrInvalidKey = errors.New("invalid object key")

// Store is a flat key/object store. Keys look like uploads/recipe/<uuid>.png
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public location of key
	URL(key string) string
}

// New builds the store selected by storage.type
func New(ctx context.Context) (Store, error) {
	switch t := viper.GetString("storage.type"); t {
	case "local":
		return NewLocal(viper.GetString("storage.local_dir"), viper.GetString("storage.public_url"))
	case "s3":
		return NewS3(ctx)
	default:
		return nil, fmt.Errorf("unknown storage type %q", t)
	}
}
