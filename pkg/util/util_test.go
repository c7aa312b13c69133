package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandStr(t *testing.T) {
	s := RandStr(10)
	require.Len(t, s, 10)

	for _, r := range s {
		assert.True(t, strings.ContainsRune(charset, r), "unexpected rune %q", r)
	}

	assert.NotEqual(t, RandStr(32), RandStr(32))
}

func TestImagePath_KeepsExtension(t *testing.T) {
	p := ImagePath("Recipe", "example.JPG")

	assert.True(t, strings.HasPrefix(p, "uploads/recipe/"), p)
	assert.True(t, strings.HasSuffix(p, ".jpg"), p)
	assert.NotContains(t, p, "example")
}

func TestImagePath_Unique(t *testing.T) {
	assert.NotEqual(t, ImagePath("recipe", "a.png"), ImagePath("recipe", "a.png"))
}

func TestImagePath_NoExtension(t *testing.T) {
	p := ImagePath("userprofile", "picture")

	assert.True(t, strings.HasPrefix(p, "uploads/userprofile/"), p)
	assert.Len(t, strings.TrimPrefix(p, "uploads/userprofile/"), 36)
}
