package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"bitwise74/recipe-api/internal/storage"
	"bitwise74/recipe-api/pkg/util"
	"bitwise74/recipe-api/pkg/validators"

	"go.uber.org/zap"
)

// Uploader validates uploaded images and puts them into the object store
type Uploader struct {
	Store   storage.Store
	MaxSize int64
}

func NewUploader(s storage.Store, maxSize int64) *Uploader {
	return &Uploader{
		Store:   s,
		MaxSize: maxSize,
	}
}

// Image stores the uploaded image under a fresh key grouped by kind and
// returns that key. Invalid uploads fail with a ValidationError on field.
func (u *Uploader) Image(ctx context.Context, field, kind string, fh *multipart.FileHeader) (string, error) {
	_, f, mime, err := validators.ImageValidator(fh, u.MaxSize)
	if err != nil {
		switch {
		case errors.Is(err, validators.ErrNoImage):
			return "", newValidationError(field, "No file was submitted.")
		case errors.Is(err, validators.ErrImageTooLarge),
			errors.Is(err, validators.ErrImageNameTooLong),
			errors.Is(err, validators.ErrImageTypeUnsupported):
			return "", newValidationError(field, err.Error())
		}
		return "", fmt.Errorf("failed to read upload, %w", err)
	}
	defer f.Close()

	key := util.ImagePath(kind, fh.Filename)

	if err := u.Store.Put(ctx, key, f, fh.Size, mime); err != nil {
		return "", fmt.Errorf("failed to store image, %w", err)
	}

	zap.L().Debug("Stored image", zap.String("key", key), zap.String("mime", mime))

	return key, nil
}

// Discard removes stored objects that are no longer referenced. Failures
// are logged and otherwise ignored.
func (u *Uploader) Discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}

		if err := u.Store.Delete(ctx, key); err != nil {
			zap.L().Error("Failed to delete stored image", zap.String("key", key), zap.Error(err))
		}
	}
}
