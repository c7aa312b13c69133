package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores objects below Dir. The router serves Dir under BaseURL.
type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if dir == "" {
		return nil, errors.New("no storage directory provided")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory, %w", err)
	}

	return &Local{
		Dir:     dir,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean != "/"+key {
		return "", ErrInvalidKey
	}

	return filepath.Join(l.Dir, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create directory, %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create file, %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write file, %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write file, %w", err)
	}

	return os.Rename(f.Name(), p)
}

// Delete removes key. Missing objects are not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

func (l *Local) URL(key string) string {
	if key == "" {
		return ""
	}
	return l.BaseURL + "/" + key
}
