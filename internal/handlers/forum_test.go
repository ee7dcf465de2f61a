// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum/internal/forum"
	"forum/internal/handlers"
	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/session"
	"forum/internal/store/memstore"
)

func TestForumScenario(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	status, body := alice.do(http.MethodPost, "/api/categories", map[string]string{"name": "General"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var cat models.Category
	decodeInto(t, body, &cat)

	status, body = alice.do(http.MethodPost, "/api/topics", map[string]string{
		"title": "Hello", "description": "First post", "category": "General",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var topic models.Topic
	decodeInto(t, body, &topic)
	assert.Equal(t, cat.ID, topic.CategoryID)

	status, body = bob.do(http.MethodPost, "/api/topics/"+topic.ID.String()+"/comments", map[string]string{"description": "hi"})
	require.Equal(t, http.StatusCreated, status, string(body))
	var comment models.Comment
	decodeInto(t, body, &comment)

	status, body = env.anonymous(t).do(http.MethodGet, "/api/topics/"+topic.ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	var view models.TopicView
	decodeInto(t, body, &view)
	assert.Equal(t, "General", view.Category.Name)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "bob", view.Comments[0].Author.Username)
	assert.True(t, view.LastUpdatedAt.Equal(comment.CreatedAt))

	// Bob owns the comment, not the topic.
	status, body = bob.do(http.MethodPut, "/api/topics/"+topic.ID.String(), map[string]string{"title": "Mine now"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", errorCode(t, body))

	status, _ = alice.do(http.MethodPut, "/api/comments/"+comment.ID.String(), map[string]string{"description": "edited"})
	assert.Equal(t, http.StatusForbidden, status)

	status, body = bob.do(http.MethodPut, "/api/comments/"+comment.ID.String(), map[string]string{"description": "edited"})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = alice.do(http.MethodDelete, "/api/categories/"+cat.ID.String(), nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var removed forum.Removal
	decodeInto(t, body, &removed)
	assert.Equal(t, forum.Removal{Categories: 1, Topics: 1, Comments: 1}, removed)

	status, body = alice.do(http.MethodGet, "/api/topics/"+topic.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", errorCode(t, body))
	status, _ = alice.do(http.MethodGet, "/api/comments/"+comment.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategoryListing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	for _, name := range []string{"Zeta", "Alpha"} {
		status, body := alice.do(http.MethodPost, "/api/categories", map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, status, string(body))
	}

	anon := env.anonymous(t)
	status, body := anon.do(http.MethodGet, "/api/categories/names", nil)
	require.Equal(t, http.StatusOK, status)
	var names []string
	decodeInto(t, body, &names)
	assert.Equal(t, []string{"Alpha", "Zeta"}, names)

	status, body = anon.do(http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, status)
	var list []models.CategorySummary
	decodeInto(t, body, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "alice", list[0].Author.Username)

	status, body = anon.do(http.MethodGet, "/api/categories/"+list[1].ID.String(), nil)
	require.Equal(t, http.StatusOK, status)
	var view models.CategoryView
	decodeInto(t, body, &view)
	assert.Equal(t, "Zeta", view.Name)
	assert.Empty(t, view.Topics)
}

func TestMutationsRequireSession(t *testing.T) {
	env := newTestEnv(t)
	anon := env.anonymous(t)
	id := uuid.NewString()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/categories"},
		{http.MethodPut, "/api/categories/" + id},
		{http.MethodDelete, "/api/categories/" + id},
		{http.MethodPost, "/api/topics"},
		{http.MethodPut, "/api/topics/" + id},
		{http.MethodDelete, "/api/topics/" + id},
		{http.MethodPost, "/api/topics/" + id + "/comments"},
		{http.MethodPut, "/api/comments/" + id},
		{http.MethodDelete, "/api/comments/" + id},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			status, body := anon.do(rt.method, rt.path, map[string]string{})
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "not_authenticated", errorCode(t, body))
		})
	}
}

func TestErrorMapping(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	status, body := alice.do(http.MethodPost, "/api/topics", map[string]string{
		"title": "Lost", "description": "d", "category": "Nowhere",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "unresolved_parent", errorCode(t, body))

	status, body = alice.do(http.MethodPost, "/api/topics/"+uuid.NewString()+"/comments", map[string]string{"description": "hi"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "unresolved_parent", errorCode(t, body))

	// A malformed parent id is as unresolvable as an absent one.
	status, body = alice.do(http.MethodPost, "/api/topics/not-a-uuid/comments", map[string]string{"description": "hi"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "unresolved_parent", errorCode(t, body))

	status, body = alice.do(http.MethodPost, "/api/categories", map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_draft", errorCode(t, body))

	status, body = alice.do(http.MethodPost, "/api/categories", `{"name": "x", "extra": 1}`)
	assert.Equal(t, http.StatusBadRequest, status, "unknown fields are rejected")
	assert.Equal(t, "invalid_draft", errorCode(t, body))

	status, _ = alice.do(http.MethodPost, "/api/categories", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = alice.do(http.MethodGet, "/api/topics/not-a-uuid", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "not_found", errorCode(t, body))

	status, _ = alice.do(http.MethodDelete, "/api/comments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnknownCaller(t *testing.T) {
	st := memstore.New()
	f := handlers.NewForum(forum.NewService(st), forum.NewResolver(st))

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"General"}`))
	req = req.WithContext(middleware.WithSession(req.Context(), &session.Data{UserID: uuid.New(), Username: "ghost"}))
	rr := httptest.NewRecorder()

	f.CreateCategory(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "unknown_caller", errorCode(t, rr.Body.Bytes()))
	cats, _, _ := st.Counts()
	assert.Zero(t, cats)
}

func TestOversizedBody(t *testing.T) {
	st := memstore.New()
	f := handlers.NewForum(forum.NewService(st), forum.NewResolver(st))

	body := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(body))
	rr := httptest.NewRecorder()
	f.CreateCategory(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid_draft", errorCode(t, rr.Body.Bytes()))
}

// downStore accepts lookups but fails every atomic unit.
type downStore struct {
	*memstore.Store
}

func (downStore) Atomic(context.Context, func(forum.Tx) error) error {
	return errors.New("connection refused")
}

func TestStoreFailureIsServiceUnavailable(t *testing.T) {
	st := memstore.New()
	u, err := st.CreateUser(context.Background(), "alice", "alice@example.com", "correct horse", "")
	require.NoError(t, err)

	f := handlers.NewForum(forum.NewService(downStore{st}), forum.NewResolver(st))

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"General"}`))
	req = req.WithContext(middleware.WithSession(req.Context(), &session.Data{UserID: u.ID, Username: u.Username}))
	rr := httptest.NewRecorder()
	f.CreateCategory(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "transient", errorCode(t, rr.Body.Bytes()))
	assert.NotContains(t, rr.Body.String(), "connection refused", "store details stay in the logs")

	rr = httptest.NewRecorder()
	f.ListCategories(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	anon := env.anonymous(t)

	status, body := anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","valkey":"ok"}`, string(body))

	env.mr.Close()
	status, body = anon.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), fmt.Sprintf("%q:%q", "valkey", "unavailable"))
}
