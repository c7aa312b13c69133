package app

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bitwise74/recipe-api/internal/model"
	"bitwise74/recipe-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func refs(names ...string) []map[string]string {
	out := make([]map[string]string, len(names))
	for i, n := range names {
		out[i] = map[string]string{"name": n}
	}
	return out
}

func (s *testServer) createRecipe(token string, body map[string]any) recipeRes {
	s.t.Helper()

	payload := map[string]any{
		"title":        "Sample recipe",
		"time_minutes": 10,
		"price":        "5.00",
	}
	for k, v := range body {
		payload[k] = v
	}

	w := s.do(http.MethodPost, "/api/recipe/recipes", token, payload)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	var r recipeRes
	decode(s.t, w, &r)
	return r
}

func TestRecipeRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/recipe/recipes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecipeCreateWithExistingTag(t *testing.T) {
	s := newTestServer(t)
	token := s.login("pongal@example.com")

	first := s.createRecipe(token, map[string]any{"tags": refs("Indian")})
	indianID := first.Tags[0].ID

	w := s.do(http.MethodPost, "/api/recipe/recipes", token, map[string]any{
		"title":        "Pongal",
		"time_minutes": 60,
		"price":        4.50,
		"tags":         refs("Indian", "Breakfast"),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var r recipeRes
	decode(t, w, &r)

	assert.Equal(t, "Pongal", r.Title)
	assert.Equal(t, "4.50", r.Price)
	require.Len(t, r.Tags, 2)
	assert.Equal(t, indianID, r.Tags[0].ID)
	assert.Equal(t, "Breakfast", r.Tags[1].Name)
	assert.Nil(t, r.Image)

	var n int64
	require.NoError(t, s.deps.DB.Model(&model.Tag{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestRecipeCreateValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.login("invalid@example.com")

	w := s.do(http.MethodPost, "/api/recipe/recipes", token, map[string]any{
		"title":        "Bad",
		"time_minutes": "soon",
		"price":        "1.00",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var e errorRes
	decode(t, w, &e)
	assert.Contains(t, e.Fields, "time_minutes")

	w = s.do(http.MethodPost, "/api/recipe/recipes", token, map[string]any{
		"title":        "Bad",
		"time_minutes": 5,
		"price":        "-1.00",
		"tags":         refs(""),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	e = errorRes{}
	decode(t, w, &e)
	assert.Contains(t, e.Fields, "price")
	assert.Contains(t, e.Fields, "tags.0.name")

	w = s.do(http.MethodPost, "/api/recipe/recipes", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	e = errorRes{}
	decode(t, w, &e)
	assert.Len(t, e.Fields, 3)

	for _, price := range []any{"abc", true, map[string]any{"amount": 1}} {
		w = s.do(http.MethodPost, "/api/recipe/recipes", token, map[string]any{
			"title":        "Bad",
			"time_minutes": 5,
			"price":        price,
		})
		require.Equal(t, http.StatusBadRequest, w.Code, "price %v", price)

		e = errorRes{}
		decode(t, w, &e)
		assert.Equal(t, "A valid number is required.", e.Fields["price"], "price %v", price)
	}

	var n int64
	require.NoError(t, s.deps.DB.Model(&model.Recipe{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecipeUpdateMalformedPrice(t *testing.T) {
	s := newTestServer(t)
	token := s.login("price@example.com")
	other := s.login("price-other@example.com")

	r := s.createRecipe(token, nil)
	path := fmt.Sprintf("/api/recipe/recipes/%d", r.ID)

	w := s.do(http.MethodPatch, path, token, map[string]any{"price": "cheap"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var e errorRes
	decode(t, w, &e)
	assert.Equal(t, "A valid number is required.", e.Fields["price"])

	// Ownership is checked before the payload
	w = s.do(http.MethodPatch, path, other, map[string]any{"price": "cheap"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A null price is treated as absent
	w = s.do(http.MethodPatch, path, token, map[string]any{"price": nil, "title": "Same price"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &r)
	assert.Equal(t, "5.00", r.Price)
	assert.Equal(t, "Same price", r.Title)
}

func TestRecipeList(t *testing.T) {
	s := newTestServer(t)
	token := s.login("list@example.com")
	other := s.login("other@example.com")

	thai := s.createRecipe(token, map[string]any{"tags": refs("Thai", "Spicy"), "ingredients": refs("Rice")})
	vegan := s.createRecipe(token, map[string]any{"tags": refs("Vegan")})
	plain := s.createRecipe(token, map[string]any{"ingredients": refs("Rice")})
	s.createRecipe(other, map[string]any{"tags": refs("Thai")})

	list := func(query string) []uint {
		w := s.do(http.MethodGet, "/api/recipe/recipes"+query, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var rs []recipeRes
		decode(t, w, &rs)

		ids := make([]uint, len(rs))
		for i, r := range rs {
			ids[i] = r.ID
		}
		return ids
	}

	assert.Equal(t, []uint{plain.ID, vegan.ID, thai.ID}, list(""))
	assert.Equal(t, []uint{vegan.ID, thai.ID}, list(fmt.Sprintf("?tags=%d,%d,%d", thai.Tags[0].ID, thai.Tags[1].ID, vegan.Tags[0].ID)))
	assert.Equal(t, []uint{plain.ID, thai.ID}, list(fmt.Sprintf("?ingredients=%d", thai.Ingredients[0].ID)))

	w := s.do(http.MethodGet, "/api/recipe/recipes?tags=1,x", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// List records leave out detail only fields
	w = s.do(http.MethodGet, "/api/recipe/recipes", token, nil)
	var raw []map[string]any
	decode(t, w, &raw)
	require.NotEmpty(t, raw)
	assert.NotContains(t, raw[0], "description")
	assert.NotContains(t, raw[0], "image")
}

func TestRecipeOtherOwnerIsNotFound(t *testing.T) {
	s := newTestServer(t)
	owner := s.login("owner@example.com")
	intruder := s.login("intruder@example.com")

	r := s.createRecipe(owner, nil)
	path := fmt.Sprintf("/api/recipe/recipes/%d", r.ID)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, intruder, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodPatch, path, intruder, map[string]any{"title": "Mine"}).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, intruder, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/recipe/recipes/999", owner, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/api/recipe/recipes/abc", owner, nil).Code)

	w := s.do(http.MethodGet, path, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got recipeRes
	decode(t, w, &got)
	assert.Equal(t, "Sample recipe", got.Title)
}

func TestRecipePatchTagPresence(t *testing.T) {
	s := newTestServer(t)
	token := s.login("patch@example.com")

	r := s.createRecipe(token, map[string]any{"tags": refs("A", "B")})
	path := fmt.Sprintf("/api/recipe/recipes/%d", r.ID)

	w := s.do(http.MethodPatch, path, token, map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &r)
	assert.Equal(t, "Renamed", r.Title)
	assert.Equal(t, []string{"A", "B"}, r.tagNames())

	w = s.do(http.MethodPatch, path, token, map[string]any{"tags": refs("C")})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &r)
	assert.Equal(t, []string{"C"}, r.tagNames())

	w = s.do(http.MethodPatch, path, token, map[string]any{"tags": []any{}})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &r)
	assert.Empty(t, r.Tags)
}

func TestRecipeUpdateIgnoresOwner(t *testing.T) {
	s := newTestServer(t)
	token := s.login("keep@example.com")
	s.login("new-owner@example.com")

	var other model.User
	require.NoError(t, s.deps.DB.Where("email = ?", "new-owner@example.com").Take(&other).Error)

	r := s.createRecipe(token, nil)
	path := fmt.Sprintf("/api/recipe/recipes/%d", r.ID)

	w := s.do(http.MethodPatch, path, token, map[string]any{
		"user":    other.ID,
		"user_id": other.ID,
		"title":   "Still mine",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var stored model.Recipe
	require.NoError(t, s.deps.DB.First(&stored, r.ID).Error)
	assert.NotEqual(t, other.ID, stored.UserID)
	assert.Equal(t, "Still mine", stored.Title)
}

func TestRecipePut(t *testing.T) {
	s := newTestServer(t)
	token := s.login("put@example.com")

	r := s.createRecipe(token, map[string]any{"tags": refs("Keep")})
	path := fmt.Sprintf("/api/recipe/recipes/%d", r.ID)

	w := s.do(http.MethodPut, path, token, map[string]any{"title": "Missing the rest"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, path, token, map[string]any{
		"title":        "Full",
		"time_minutes": 45,
		"price":        "12.30",
		"description":  "All fields",
		"link":         "https://example.com/full",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &r)

	assert.Equal(t, "Full", r.Title)
	assert.Equal(t, 45, r.TimeMinutes)
	assert.Equal(t, "12.30", r.Price)
	assert.Equal(t, "All fields", r.Description)
	assert.Equal(t, "https://example.com/full", r.Link)
	assert.Equal(t, []string{"Keep"}, r.tagNames())
}

func TestRecipeDelete(t *testing.T) {
	s := newTestServer(t)
	token := s.login("delete@example.com")

	r := s.createRecipe(token, map[string]any{"tags": refs("Gone")})
	path := fmt.Sprintf("/api/recipe/recipes/%d", r.ID)

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, token, nil).Code)
}

func TestRecipeUploadImage(t *testing.T) {
	s := newTestServer(t)
	token := s.login("image@example.com")

	r := s.createRecipe(token, nil)
	path := fmt.Sprintf("/api/recipe/recipes/%d/upload-image", r.ID)

	body, ct := testutil.MultipartBody(t, "image", "dish.png", testutil.PNG(t))
	w := s.raw(http.MethodPost, path, token, body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		ID    uint   `json:"id"`
		Image string `json:"image"`
	}
	decode(t, w, &res)
	assert.Equal(t, r.ID, res.ID)
	require.True(t, strings.HasPrefix(res.Image, "/media/uploads/recipe/"))

	key := strings.TrimPrefix(res.Image, "/media/")
	_, err := os.Stat(filepath.Join(s.dir, filepath.FromSlash(key)))
	require.NoError(t, err)

	// The stored file is served
	w = s.do(http.MethodGet, res.Image, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Replacing the image removes the old file
	body, ct = testutil.MultipartBody(t, "image", "dish2.png", testutil.PNG(t))
	w = s.raw(http.MethodPost, path, token, body, ct)
	require.Equal(t, http.StatusOK, w.Code)

	_, err = os.Stat(filepath.Join(s.dir, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	body, ct = testutil.MultipartBody(t, "image", "dish.png", []byte("notimage"))
	w = s.raw(http.MethodPost, path, token, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	other := s.login("image-other@example.com")
	body, ct = testutil.MultipartBody(t, "image", "dish.png", testutil.PNG(t))
	w = s.raw(http.MethodPost, path, other, body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecipeUploadImageBadForm(t *testing.T) {
	s := newTestServer(t)
	token := s.login("form@example.com")

	r := s.createRecipe(token, nil)
	path := fmt.Sprintf("/api/recipe/recipes/%d/upload-image", r.ID)

	// Unparseable multipart is a bad body, not a missing file
	w := s.raw(http.MethodPost, path, token, strings.NewReader("garbage"), "multipart/form-data")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var e errorRes
	decode(t, w, &e)
	assert.Equal(t, "Invalid request body", e.Error)
	assert.Empty(t, e.Fields)

	// A well formed form without the file reports the field
	body, ct := testutil.MultipartBody(t, "other", "dish.png", testutil.PNG(t))
	w = s.raw(http.MethodPost, path, token, body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)

	e = errorRes{}
	decode(t, w, &e)
	assert.Equal(t, "No file was submitted.", e.Fields["image"])

	// Unknown length skips the Content-Length check, the limit trips while parsing
	body, ct = testutil.MultipartBody(t, "image", "huge.png", bytes.Repeat([]byte{0}, 3<<20))
	w = s.raw(http.MethodPost, path, token, io.MultiReader(body), ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var n int64
	require.NoError(t, s.deps.DB.Model(&model.Recipe{}).Where("image <> ''").Count(&n).Error)
	assert.Zero(t, n)
}

func TestProfilePicture(t *testing.T) {
	s := newTestServer(t)
	token := s.login("picture@example.com")

	body, ct := testutil.MultipartBody(t, "picture", "me.png", testutil.PNG(t))
	w := s.raw(http.MethodPost, "/api/user/profile/picture", token, body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/user/profile", token, nil).Code)

	body, ct = testutil.MultipartBody(t, "picture", "me.png", testutil.PNG(t))
	w = s.raw(http.MethodPost, "/api/user/profile/picture", token, body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p map[string]any
	decode(t, w, &p)
	assert.True(t, strings.HasPrefix(p["picture"].(string), "/media/uploads/userprofile/"))
}
