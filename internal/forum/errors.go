// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the forum core.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAuthenticated
	KindUnknownCaller
	KindForbidden
	KindNotFound
	KindUnresolvedParent
	KindInvalidDraft
	KindTransient
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindNotAuthenticated: "not_authenticated",
	KindUnknownCaller:    "unknown_caller",
	KindForbidden:        "forbidden",
	KindNotFound:         "not_found",
	KindUnresolvedParent: "unresolved_parent",
	KindInvalidDraft:     "invalid_draft",
	KindTransient:        "transient",
}

// String returns the snake_case code used on the wire.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Sentinel values for errors.Is. Any *Error of the same kind matches.
var (
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated}
	ErrUnknownCaller    = &Error{Kind: KindUnknownCaller}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrUnresolvedParent = &Error{Kind: KindUnresolvedParent}
	ErrInvalidDraft     = &Error{Kind: KindInvalidDraft}
	ErrTransient        = &Error{Kind: KindTransient}
)

// Sentinels returned by Store implementations for unique-index violations.
var (
	ErrDuplicateName = errors.New("duplicate category name")
	ErrDuplicateUser = errors.New("duplicate username or email")
)

// Error is a structured failure carrying enough context for a request
// handler to produce an accurate response.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// transient wraps a persistence failure. Domain errors pass through unchanged.
func transient(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	return &Error{Kind: KindTransient, Op: op, Message: "store unavailable", Err: err}
}

// KindOf returns the kind of err, or KindUnknown if err is not a forum error.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
