// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers exposes the forum over JSON. Handlers decode requests,
// resolve the caller from the session and hand everything else to the
// forum service.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"forum/internal/forum"
)

// maxBodyBytes caps the size of a JSON request body.
const maxBodyBytes = 1 << 20

// errorBody is the JSON error envelope.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

// fail writes a JSON error with an explicit status and code.
func fail(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// statusOf maps a forum error kind to its HTTP status.
func statusOf(k forum.Kind) int {
	switch k {
	case forum.KindNotAuthenticated, forum.KindUnknownCaller:
		return http.StatusUnauthorized
	case forum.KindForbidden:
		return http.StatusForbidden
	case forum.KindNotFound:
		return http.StatusNotFound
	case forum.KindUnresolvedParent:
		return http.StatusUnprocessableEntity
	case forum.KindInvalidDraft:
		return http.StatusBadRequest
	case forum.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a JSON error response. Store failures and
// unclassified errors are logged; their details never reach the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *forum.Error
	if !errors.As(err, &fe) {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		fail(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	status := statusOf(fe.Kind)
	message := fe.Message
	switch fe.Kind {
	case forum.KindTransient:
		slog.Error("store unavailable", "op", fe.Op, "path", r.URL.Path, "error", err)
		message = "service temporarily unavailable"
	case forum.KindForbidden, forum.KindUnknownCaller:
		slog.Warn("request rejected", "op", fe.Op, "kind", fe.Kind.String(), "path", r.URL.Path)
	}
	fail(w, status, fe.Kind.String(), message)
}

// decode reads a JSON request body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "malformed JSON body"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
		}
		fail(w, http.StatusBadRequest, forum.KindInvalidDraft.String(), msg)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. A malformed id names nothing, so
// it is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusNotFound, forum.KindNotFound.String(), what+" not found")
		return uuid.Nil, false
	}
	return id, true
}

// parentID parses the {id} URL parameter naming the parent of a new
// entity. A malformed id resolves to no parent, so it is answered like an
// absent one.
func parentID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		fail(w, http.StatusUnprocessableEntity, forum.KindUnresolvedParent.String(), what+" does not exist")
		return uuid.Nil, false
	}
	return id, true
}
