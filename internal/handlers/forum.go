// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"forum/internal/forum"
	"forum/internal/middleware"
)

// Forum groups the category, topic and comment handlers.
type Forum struct {
	svc      *forum.Service
	resolver *forum.Resolver
}

// NewForum creates a new Forum handler group.
func NewForum(svc *forum.Service, resolver *forum.Resolver) *Forum {
	return &Forum{svc: svc, resolver: resolver}
}

// caller resolves the session's username to an author id. A request
// without a session resolves to NotAuthenticated.
func (f *Forum) caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var handle string
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		handle = sess.Username
	}
	id, err := f.resolver.ResolveAuthor(r.Context(), handle)
	if err != nil {
		writeError(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}

// === Categories ===

// ListCategories returns every category with its topic count.
func (f *Forum) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := f.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CategoryNames returns the names topic drafts may refer to.
func (f *Forum) CategoryNames(w http.ResponseWriter, r *http.Request) {
	names, err := f.svc.CategoryNames(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (f *Forum) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var d forum.CategoryDraft
	if !decode(w, r, &d) {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	c, err := f.svc.CreateCategory(r.Context(), d, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (f *Forum) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	view, err := f.svc.FetchCategory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if view == nil {
		fail(w, http.StatusNotFound, forum.KindNotFound.String(), "category not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (f *Forum) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}
	var p forum.CategoryPatch
	if !decode(w, r, &p) {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	c, err := f.svc.UpdateCategory(r.Context(), id, p, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (f *Forum) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	removed, err := f.svc.DeleteCategory(r.Context(), id, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

// === Topics ===

func (f *Forum) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var d forum.TopicDraft
	if !decode(w, r, &d) {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	t, err := f.svc.CreateTopic(r.Context(), d, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (f *Forum) GetTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "topic")
	if !ok {
		return
	}

	view, err := f.svc.FetchTopic(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if view == nil {
		fail(w, http.StatusNotFound, forum.KindNotFound.String(), "topic not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (f *Forum) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "topic")
	if !ok {
		return
	}
	var p forum.TopicPatch
	if !decode(w, r, &p) {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	t, err := f.svc.UpdateTopic(r.Context(), id, p, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (f *Forum) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "topic")
	if !ok {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	removed, err := f.svc.DeleteTopic(r.Context(), id, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}

// === Comments ===

type commentRequest struct {
	Description string `json:"description"`
}

// CreateComment replies to the topic named in the URL.
func (f *Forum) CreateComment(w http.ResponseWriter, r *http.Request) {
	topicID, ok := parentID(w, r, "topic")
	if !ok {
		return
	}
	var req commentRequest
	if !decode(w, r, &req) {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	c, err := f.svc.CreateComment(r.Context(), forum.CommentDraft{Description: req.Description, TopicID: topicID}, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (f *Forum) GetComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "comment")
	if !ok {
		return
	}

	view, err := f.svc.FetchComment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if view == nil {
		fail(w, http.StatusNotFound, forum.KindNotFound.String(), "comment not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (f *Forum) UpdateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "comment")
	if !ok {
		return
	}
	var p forum.CommentPatch
	if !decode(w, r, &p) {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	c, err := f.svc.UpdateComment(r.Context(), id, p, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (f *Forum) DeleteComment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "comment")
	if !ok {
		return
	}
	author, ok := f.caller(w, r)
	if !ok {
		return
	}

	removed, err := f.svc.DeleteComment(r.Context(), id, author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, removed)
}
