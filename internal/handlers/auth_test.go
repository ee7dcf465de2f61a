package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum/internal/models"
)

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	status, body := alice.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var me models.User
	decodeInto(t, body, &me)
	assert.Equal(t, "alice", me.Username)
	assert.NotContains(t, string(body), "password")

	status, _ = alice.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, body = alice.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "not_authenticated", errorCode(t, body))

	status, body = alice.do(http.MethodPost, "/api/login", map[string]string{
		"username": "alice", "password": "correct horse",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = alice.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	anon := env.anonymous(t)

	for _, creds := range []map[string]string{
		{"username": "alice", "password": "wrong password"},
		{"username": "nobody", "password": "correct horse"},
	} {
		status, body := anon.do(http.MethodPost, "/api/login", creds)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "invalid_credentials", errorCode(t, body))
	}

	status, _ := anon.do(http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	anon := env.anonymous(t)

	cases := []struct {
		name string
		req  map[string]string
	}{
		{"short username", map[string]string{"username": "al", "email": "al@example.com", "password": "long enough"}},
		{"bad username chars", map[string]string{"username": "al ice", "email": "a@example.com", "password": "long enough"}},
		{"bad email", map[string]string{"username": "alice", "email": "not-an-email", "password": "long enough"}},
		{"short password", map[string]string{"username": "alice", "email": "a@example.com", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := anon.do(http.MethodPost, "/api/register", tc.req)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "invalid_draft", errorCode(t, body))
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	status, body := env.anonymous(t).do(http.MethodPost, "/api/register", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "correct horse",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", errorCode(t, body))
}

func TestAuthRateLimited(t *testing.T) {
	env := newTestEnv(t)
	anon := env.anonymous(t)

	var last int
	for i := 0; i < 25; i++ {
		last, _ = anon.do(http.MethodPost, "/api/login", map[string]string{"username": "x", "password": "y"})
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
