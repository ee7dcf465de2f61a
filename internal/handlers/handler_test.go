// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// the full router over an in-memory store and an in-process Valkey.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"forum/internal/forum"
	"forum/internal/handlers"
	"forum/internal/middleware"
	"forum/internal/router"
	"forum/internal/session"
	"forum/internal/store/memstore"
)

type testEnv struct {
	srv      *httptest.Server
	store    *memstore.Store
	mr       *miniredis.Miniredis
	sessions *session.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	st := memstore.New()
	sessions := session.NewStore(client, false, time.Hour)
	svc := forum.NewService(st)

	r := router.New(router.Deps{
		Sessions:    sessions,
		Auth:        handlers.NewAuth(st, sessions),
		Forum:       handlers.NewForum(svc, forum.NewResolver(st)),
		AuthLimiter: middleware.NewRateLimiter(client, "auth", 20, time.Minute),
		Checks:      map[string]router.Pinger{"valkey": sessions},
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, store: st, mr: mr, sessions: sessions}
}

// user is an HTTP client with its own cookie jar.
type user struct {
	t      *testing.T
	env    *testEnv
	client *http.Client
}

func (e *testEnv) anonymous(t *testing.T) *user {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &user{t: t, env: e, client: &http.Client{Jar: jar}}
}

// register creates an account and returns a client signed in as it.
func (e *testEnv) register(t *testing.T, username string) *user {
	t.Helper()
	u := e.anonymous(t)
	status, body := u.do(http.MethodPost, "/api/register", map[string]string{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "correct horse",
		"display_name": username,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	return u
}

// do sends a JSON request and returns the status and raw body.
func (u *user) do(method, path string, payload any) (int, []byte) {
	u.t.Helper()

	var reader io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(p)
	default:
		b, err := json.Marshal(p)
		require.NoError(u.t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, u.env.srv.URL+path, reader)
	require.NoError(u.t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := u.client.Do(req)
	require.NoError(u.t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(u.t, err)
	return resp.StatusCode, body
}

// decodeInto unmarshals body into v.
func decodeInto(t *testing.T, body []byte, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body, v), string(body))
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// errorCode extracts the error code from a JSON error body.
func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e apiError
	decodeInto(t, body, &e)
	return e.Error.Code
}
