package service

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned both for rows that don't exist and rows owned by
	// someone else, so callers can't probe for other users' data
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrProfileExists      = errors.New("profile already exists")
)

// ValidationError carries one message per offending field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := slices.Sorted(maps.Keys(e.Fields))

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}

	return "validation failed, " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// StorageError wraps a failure of the underlying database
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure, %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}

	var se *StorageError
	if errors.As(err, &se) {
		return err
	}

	return &StorageError{Err: err}
}
