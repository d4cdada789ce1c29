package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/petaverse-auth/internal/domain/entity"
	"github.com/oksasatya/petaverse-auth/internal/domain/repository"
	"github.com/oksasatya/petaverse-auth/pkg/helpers"
	"github.com/oksasatya/petaverse-auth/pkg/response"
)

type stubUsers map[string]*entity.User

func (s stubUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if id == "broken" {
		return nil, errors.New("connection refused")
	}
	u, ok := s[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type guardEnv struct {
	engine *gin.Engine
	jwt    *helpers.JWTManager
	now    time.Time
}

func newGuardEnv(t *testing.T) *guardEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &guardEnv{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	env.jwt = helpers.NewJWTManager("test-secret", time.Hour)
	env.jwt.Now = func() time.Time { return env.now }

	users := stubUsers{"u-1": {ID: "u-1", Name: "Ana", IsVerified: true}}

	r := gin.New()
	r.Use(RequestID())
	r.GET("/me", Auth(env.jwt, users, helpers.NewNopLogger()), func(c *gin.Context) {
		v, ok := c.Get(CtxUserKey)
		require.True(t, ok)
		u := v.(*entity.User)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "ctx_id": c.GetString(CtxUserIDKey)})
	})
	env.engine = r
	return env
}

func (e *guardEnv) do(header string) (*httptest.ResponseRecorder, response.ErrorBody) {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	var body response.ErrorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func (e *guardEnv) token(t *testing.T, userID string) string {
	t.Helper()
	tok, _, err := e.jwt.GenerateToken(userID)
	require.NoError(t, err)
	return tok
}

func TestAuth_Accepts(t *testing.T) {
	env := newGuardEnv(t)
	w, _ := env.do("Bearer " + env.token(t, "u-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u-1","ctx_id":"u-1"}`, w.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	env := newGuardEnv(t)
	good := env.token(t, "u-1")
	other := helpers.NewJWTManager("other-secret", time.Hour)
	other.Now = env.jwt.Now
	foreign, _, err := other.GenerateToken("u-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"no header", "", "Not authorized, no token"},
		{"wrong scheme", "Basic " + good, "Not authorized, no token"},
		{"bearer without token", "Bearer", "Not authorized, no token"},
		{"garbage", "Bearer abc.def.ghi", "Not authorized, Token is not valid"},
		{"wrong secret", "Bearer " + foreign, "Not authorized, Token is not valid"},
		{"deleted user", "Bearer " + env.token(t, "u-gone"), "Not authorized, Token is not valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.do(tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.msg, body.Message)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestAuth_Expiry(t *testing.T) {
	env := newGuardEnv(t)
	issued := env.now
	tok := env.token(t, "u-1")

	env.now = issued.Add(59 * time.Minute)
	w, _ := env.do("Bearer " + tok)
	assert.Equal(t, http.StatusOK, w.Code)

	env.now = issued.Add(61 * time.Minute)
	w, body := env.do("Bearer " + tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized, Token is not valid", body.Message)
}

func TestAuth_StorageFault(t *testing.T) {
	env := newGuardEnv(t)
	w, body := env.do("Bearer " + env.token(t, "broken"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", body.Message)
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer   abc "))
	assert.Empty(t, BearerToken("Token abc"))
	assert.Empty(t, BearerToken("Bearer"))
	assert.Empty(t, BearerToken(""))
}
