package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-follow-graph/config"
	"github.com/oksasatya/go-follow-graph/internal/container"
	"github.com/oksasatya/go-follow-graph/internal/interface/middleware"
	"github.com/oksasatya/go-follow-graph/pkg/helpers"
	"github.com/oksasatya/go-follow-graph/pkg/validation"
)

type envelope struct {
	Status    int             `json:"status"`
	Success   bool            `json:"success"`
	RequestID string          `json:"request_id"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
	jwt    *helpers.JWTManager
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	jwt := helpers.NewJWTManager("test-secret", time.Hour, "test")

	container.SetConfig(&config.Config{UserStore: "redis", ESUsersIndex: "users", DebugMetricsEnabled: true})
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(jwt)
	container.SetES(nil)
	container.SetRabbitPub(nil)
	container.SetPGPool(nil)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return &api{t: t, engine: r, jwt: jwt}
}

func (a *api) do(method, path, as string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		tok, _, err := a.jwt.GenerateAccessToken(as)
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestUserEndpoints(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/api/users/unknownUserLogin", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.RequestID)

	code, _ = a.do(http.MethodPost, "/api/users", "", map[string]string{
		"login": "jdubois", "email": "jdubois@ippon.fr", "first_name": "Julien", "last_name": "Dubois",
	})
	require.Equal(t, http.StatusCreated, code)

	code, env = a.do(http.MethodGet, "/api/users/jdubois/profile", "", nil)
	require.Equal(t, http.StatusOK, code)
	profile := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Julien", profile["first_name"])
	assert.Equal(t, float64(0), profile["tweet_count"])
	assert.Equal(t, float64(0), profile["followers_count"])
	assert.Equal(t, float64(0), profile["friends_count"])

	code, _ = a.do(http.MethodPost, "/api/users", "", map[string]string{"login": "jdubois", "first_name": "Other"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = a.do(http.MethodPost, "/api/users", "", map[string]string{"login": "bad login"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(env.Error), "login")
}

func TestUpdateIsUpsertForSelfOnly(t *testing.T) {
	a := newAPI(t)

	code, _ := a.do(http.MethodPut, "/api/users/uuser", "", map[string]string{"first_name": "X"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(http.MethodPut, "/api/users/uuser", "someoneElse", map[string]string{"first_name": "X"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(http.MethodPut, "/api/users/uuser", "uuser", map[string]string{"first_name": "UpdatedFirstName"})
	require.Equal(t, http.StatusOK, code)

	code, env := a.do(http.MethodGet, "/api/users/uuser", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "UpdatedFirstName", decode[map[string]any](t, env.Data)["first_name"])
}

func TestFriendshipEndpoints(t *testing.T) {
	a := newAPI(t)
	for _, login := range []string{"userWhoFollow", "userWhoIsFollowed"} {
		code, _ := a.do(http.MethodPost, "/api/users", "", map[string]string{"login": login})
		require.Equal(t, http.StatusCreated, code)
	}

	code, _ := a.do(http.MethodPost, "/api/friendships/userWhoIsFollowed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	for i := 0; i < 2; i++ {
		code, _ = a.do(http.MethodPost, "/api/friendships/userWhoIsFollowed", "userWhoFollow", nil)
		require.Equal(t, http.StatusOK, code)
	}

	code, env := a.do(http.MethodGet, "/api/friendships/userWhoIsFollowed", "userWhoFollow", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, decode[map[string]any](t, env.Data)["following"])

	_, env = a.do(http.MethodGet, "/api/users/userWhoIsFollowed/profile", "", nil)
	assert.Equal(t, float64(1), decode[map[string]any](t, env.Data)["followers_count"])
	_, env = a.do(http.MethodGet, "/api/users/userWhoFollow/profile", "", nil)
	assert.Equal(t, float64(1), decode[map[string]any](t, env.Data)["friends_count"])

	_, env = a.do(http.MethodGet, "/api/users/userWhoIsFollowed/followers", "", nil)
	assert.Equal(t, []string{"userWhoFollow"}, decode[[]string](t, env.Data))
	_, env = a.do(http.MethodGet, "/api/users/userWhoFollow/friends", "", nil)
	friends := decode[[]map[string]any](t, env.Data)
	require.Len(t, friends, 1)
	assert.Equal(t, "userWhoIsFollowed", friends[0]["followed"])

	code, _ = a.do(http.MethodPost, "/api/friendships/userWhoFollow", "userWhoFollow", nil)
	assert.Equal(t, http.StatusBadRequest, code, "self follow")

	code, _ = a.do(http.MethodDelete, "/api/friendships/userWhoIsFollowed", "userWhoFollow", nil)
	require.Equal(t, http.StatusOK, code)
	_, env = a.do(http.MethodGet, "/api/users/userWhoIsFollowed/profile", "", nil)
	assert.Equal(t, float64(0), decode[map[string]any](t, env.Data)["followers_count"])

	code, env = a.do(http.MethodPost, "/api/counters/userWhoIsFollowed/reconcile", "userWhoFollow", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"followers_count":0,"friends_count":0}`, string(env.Data))
}

func TestSearchWithoutIndex(t *testing.T) {
	a := newAPI(t)

	code, _ := a.do(http.MethodGet, "/api/users/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := a.do(http.MethodGet, "/api/users/search?q=julien", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "search results", env.Message)

	for _, size := range []string{"abc", "0", "-3"} {
		code, env = a.do(http.MethodGet, "/api/users/search?q=julien&size="+size, "", nil)
		assert.Equal(t, http.StatusBadRequest, code, "size=%s", size)
		assert.Equal(t, "invalid size", env.Message)
	}
}

func TestReconcileRoute(t *testing.T) {
	a := newAPI(t)

	code, _ := a.do(http.MethodPost, "/api/counters/someone/reconcile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := a.do(http.MethodPost, "/api/counters/someone/reconcile", "caller", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"followers_count":0,"friends_count":0}`, string(env.Data))

	code, _ = a.do(http.MethodPost, "/api/admin/reconcile/someone", "caller", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestDebugVars(t *testing.T) {
	a := newAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil)
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "follows_created")
}
