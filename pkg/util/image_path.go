package util

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// ImagePath builds the storage key for an uploaded image. The original file
// name is replaced by a random UUID so uploads never collide, only the
// extension is kept. kind groups the keys, e.g. "recipe" or "userprofile"
func ImagePath(kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("uploads", strings.ToLower(kind), uuid.NewString()+ext)
}
