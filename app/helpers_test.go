package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitwise74/recipe-api/internal"
	"bitwise74/recipe-api/internal/service"
	"bitwise74/recipe-api/internal/storage"
	"bitwise74/recipe-api/internal/testutil"
	"bitwise74/recipe-api/pkg/security"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	deps   *internal.Deps
	dir    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("security.rate_limit", 1000)
	viper.Set("storage.public_url", "/media")
	viper.Set("host.cors", "http://localhost:3000")
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	store, err := storage.NewLocal(dir, "/media")
	require.NoError(t, err)

	d := &internal.Deps{
		DB:       testutil.NewDB(t),
		Argon:    testutil.FastArgon(),
		Tokens:   security.NewTokenIssuer("test-secret", time.Minute, time.Hour),
		Uploader: service.NewUploader(store, 1<<20),
	}

	return &testServer{
		t:      t,
		router: NewRouter(d, persist.NewMemoryStore(time.Minute)),
		deps:   d,
		dir:    dir,
	}
}

func (s *testServer) raw(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	s.t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}

	return s.raw(method, path, token, r, "application/json")
}

// login registers a user with email and returns its access token
func (s *testServer) login(email string) string {
	s.t.Helper()

	w := s.do(http.MethodPost, "/api/user/create", "", map[string]any{
		"email":    email,
		"password": "testpass123",
		"name":     "Test",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/user/token", "", map[string]any{
		"email":    email,
		"password": "testpass123",
	})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Access string `json:"access"`
	}
	decode(s.t, w, &res)

	return res.Access
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type attrRes struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type recipeRes struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	TimeMinutes int       `json:"time_minutes"`
	Price       string    `json:"price"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	Tags        []attrRes `json:"tags"`
	Ingredients []attrRes `json:"ingredients"`
}

func (r recipeRes) tagNames() []string {
	out := make([]string, len(r.Tags))
	for i, t := range r.Tags {
		out[i] = t.Name
	}
	return out
}

type errorRes struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}
