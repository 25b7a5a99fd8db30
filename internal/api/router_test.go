package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oyilmaz/ratehub/internal/auth"
	"github.com/oyilmaz/ratehub/internal/config"
	"github.com/oyilmaz/ratehub/internal/models"
	"github.com/oyilmaz/ratehub/internal/repository/memory"
	"github.com/oyilmaz/ratehub/internal/services"
)

type captureMailer struct {
	body string
}

func (m *captureMailer) Send(ctx context.Context, to, subject, body string) error {
	m.body = body
	return nil
}

func (m *captureMailer) code() string {
	i := strings.LastIndex(m.body, ": ")
	return m.body[i+2:]
}

type testEnv struct {
	srv    *httptest.Server
	repos  memory.Repositories
	tm     *auth.TokenManager
	mailer *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Config{
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		RateRPS:          0, // disabled for tests
		CodeTTL:          15 * time.Minute,
		CodeLength:       8,
		CodeAlphabet:     "abcdefghijklmnopqrstuvwxyz0123456789",
		ReservedUsername: "me",
		MaxUsernameLen:   150,
		MaxEmailLen:      254,
	}
	repos := memory.NewRepositories()
	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	mailer := &captureMailer{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := NewRouter(RouterDeps{
		Cfg:        cfg,
		TM:         tm,
		AuthSvc:    services.NewAuthService(repos.Users, mailer, tm, cfg, log),
		UserSvc:    services.NewUserService(repos.Users, cfg),
		CatalogSvc: services.NewCatalogService(repos.Categories, repos.Genres, repos.Titles, repos.Reviews),
		ReviewSvc:  services.NewReviewService(repos.Reviews, repos.Titles, log),
		CommentSvc: services.NewCommentService(repos.Comments, repos.Reviews, repos.Titles, log),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, repos: repos, tm: tm, mailer: mailer}
}

// do sends a JSON request and decodes the JSON response into a generic map.
func (e *testEnv) do(t *testing.T, method, path, token string, payload any) (int, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// adminToken seeds an admin user directly and signs a token for it.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	u, err := e.repos.Users.Create(context.Background(), models.User{
		Username: "boss", Email: "boss@example.com", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	token, err := e.tm.Issue(u.ID, string(models.RoleAdmin))
	require.NoError(t, err)
	return token
}

func (e *testEnv) userToken(t *testing.T, username string) string {
	t.Helper()
	status, _ := e.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": username, "email": username + "@example.com",
	})
	require.Equal(t, http.StatusOK, status)
	status, body := e.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"username": username, "confirmation_code": e.mailer.code(),
	})
	require.Equal(t, http.StatusOK, status)
	return body["token"].(string)
}

func TestSignupTokenFlow(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.do(t, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"username": "alice", "email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])

	// wrong code first
	status, body = e.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"username": "alice", "confirmation_code": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_code", body["code"])

	status, body = e.do(t, http.MethodPost, "/api/v1/auth/token", "", map[string]string{
		"username": "alice", "confirmation_code": e.mailer.code(),
	})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = e.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "user", body["role"])
}

func TestInvalidBearerToken(t *testing.T) {
	e := newTestEnv(t)

	status, body := e.do(t, http.MethodGet, "/api/v1/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", body["code"])

	// anonymous reads still work
	status, _ = e.do(t, http.MethodGet, "/api/v1/titles/", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestCatalogAndReviewFlow(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)
	alice := e.userToken(t, "alice")
	bob := e.userToken(t, "bob")

	status, _ := e.do(t, http.MethodPost, "/api/v1/categories/", admin, map[string]string{
		"name": "Movies", "slug": "movies",
	})
	require.Equal(t, http.StatusCreated, status)

	status, _ = e.do(t, http.MethodPost, "/api/v1/genres/", admin, map[string]string{
		"name": "Sci-Fi", "slug": "sci-fi",
	})
	require.Equal(t, http.StatusCreated, status)

	// non-admin cannot touch the catalog
	status, body := e.do(t, http.MethodPost, "/api/v1/categories/", alice, map[string]string{
		"name": "Books", "slug": "books",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["code"])

	status, body = e.do(t, http.MethodPost, "/api/v1/titles/", admin, map[string]any{
		"name": "Dune", "year": 2021, "category": "movies", "genre": []string{"sci-fi"},
	})
	require.Equal(t, http.StatusCreated, status)
	titleID := body["id"].(string)
	assert.Nil(t, body["rating"])

	reviews := fmt.Sprintf("/api/v1/titles/%s/reviews/", titleID)

	status, body = e.do(t, http.MethodPost, reviews, alice, map[string]any{
		"text": "masterpiece", "score": 8,
	})
	require.Equal(t, http.StatusCreated, status)
	reviewID := body["id"].(string)
	assert.Equal(t, "alice", body["author"])

	// one review per author per title
	status, body = e.do(t, http.MethodPost, reviews, alice, map[string]any{
		"text": "changed my mind", "score": 3,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "duplicate_review", body["code"])

	// score outside 1..10 never reaches the store
	status, body = e.do(t, http.MethodPost, reviews, bob, map[string]any{
		"text": "meh", "score": 11,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])

	status, _ = e.do(t, http.MethodPost, reviews, bob, map[string]any{
		"text": "decent", "score": 6,
	})
	require.Equal(t, http.StatusCreated, status)

	// anonymous users read, they do not write
	status, body = e.do(t, http.MethodGet, reviews, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	status, body = e.do(t, http.MethodPost, reviews, "", map[string]any{
		"text": "drive-by", "score": 1,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthenticated", body["code"])

	// rating is the mean of current scores
	status, body = e.do(t, http.MethodGet, "/api/v1/titles/"+titleID+"/", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 7.0, body["rating"].(float64), 1e-9)

	// bob cannot edit alice's review, a moderator can delete it
	status, body = e.do(t, http.MethodPatch, reviews+reviewID+"/", bob, map[string]any{
		"text": "vandalism",
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["code"])

	status, _ = e.do(t, http.MethodDelete, reviews+reviewID+"/", admin, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = e.do(t, http.MethodGet, "/api/v1/titles/"+titleID+"/", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 6.0, body["rating"].(float64), 1e-9)

	// unknown parents are 404s
	status, body = e.do(t, http.MethodGet, "/api/v1/titles/no-such-title/reviews/", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])
}

func TestCommentRoutes(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)
	alice := e.userToken(t, "alice")
	bob := e.userToken(t, "bob")

	status, _ := e.do(t, http.MethodPost, "/api/v1/categories/", admin, map[string]string{
		"name": "Movies", "slug": "movies",
	})
	require.Equal(t, http.StatusCreated, status)
	status, body := e.do(t, http.MethodPost, "/api/v1/titles/", admin, map[string]any{
		"name": "Dune", "year": 2021, "category": "movies",
	})
	require.Equal(t, http.StatusCreated, status)
	titleID := body["id"].(string)

	status, body = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/titles/%s/reviews/", titleID), alice, map[string]any{
		"text": "masterpiece", "score": 8,
	})
	require.Equal(t, http.StatusCreated, status)
	reviewID := body["id"].(string)

	comments := fmt.Sprintf("/api/v1/titles/%s/reviews/%s/comments/", titleID, reviewID)

	status, body = e.do(t, http.MethodPost, comments, bob, map[string]any{"text": "agreed"})
	require.Equal(t, http.StatusCreated, status)
	commentID := body["id"].(string)
	assert.Equal(t, "bob", body["author"])

	status, body = e.do(t, http.MethodGet, comments, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])

	status, body = e.do(t, http.MethodPatch, comments+commentID, alice, map[string]any{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["code"])

	status, body = e.do(t, http.MethodPatch, comments+commentID, bob, map[string]any{"text": "strongly agreed"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "strongly agreed", body["text"])

	status, _ = e.do(t, http.MethodDelete, comments+commentID, bob, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestUserAdminRoutes(t *testing.T) {
	e := newTestEnv(t)
	admin := e.adminToken(t)
	alice := e.userToken(t, "alice")

	status, body := e.do(t, http.MethodGet, "/api/v1/users/", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, body["count"])

	status, body = e.do(t, http.MethodGet, "/api/v1/users/", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["code"])

	status, body = e.do(t, http.MethodPost, "/api/v1/users/", admin, map[string]string{
		"username": "carol", "email": "carol@example.com", "role": "moderator",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "moderator", body["role"])

	status, body = e.do(t, http.MethodPatch, "/api/v1/users/alice", admin, map[string]string{
		"first_name": "Alice",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", body["first_name"])

	// self-service edits cannot change the role
	status, body = e.do(t, http.MethodPatch, "/api/v1/users/me", alice, map[string]string{
		"bio": "hello", "role": "admin",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "hello", body["bio"])
	assert.Equal(t, "user", body["role"])

	status, _ = e.do(t, http.MethodDelete, "/api/v1/users/carol", admin, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	resp, err := e.srv.Client().Get(e.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
