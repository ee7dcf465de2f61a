// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := newError(KindForbidden, "update topic", "not yours")
	if !errors.Is(err, ErrForbidden) {
		t.Fatal("expected errors.Is to match ErrForbidden")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("forbidden must not match not found")
	}

	wrapped := fmt.Errorf("handler: %w", err)
	if !errors.Is(wrapped, ErrForbidden) {
		t.Fatal("expected match through a wrapping error")
	}
	if KindOf(wrapped) != KindForbidden {
		t.Fatalf("KindOf = %v, want forbidden", KindOf(wrapped))
	}
}

func TestErrorMessage(t *testing.T) {
	err := newError(KindNotFound, "fetch topic", "topic %d not found", 7)
	if got, want := err.Error(), "fetch topic: topic 7 not found"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if got := ErrNotFound.Error(); got != "not_found" {
		t.Fatalf("sentinel Error() = %q", got)
	}
}

func TestTransient(t *testing.T) {
	if transient("op", nil) != nil {
		t.Fatal("nil must stay nil")
	}

	cause := errors.New("connection refused")
	err := transient("create topic", cause)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to be preserved")
	}

	domain := newError(KindUnresolvedParent, "create topic", "no such category")
	if got := transient("create topic", domain); got != error(domain) {
		t.Fatalf("domain error was rewrapped: %v", got)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindNotAuthenticated: "not_authenticated",
		KindUnknownCaller:    "unknown_caller",
		KindForbidden:        "forbidden",
		KindNotFound:         "not_found",
		KindUnresolvedParent: "unresolved_parent",
		KindInvalidDraft:     "invalid_draft",
		KindTransient:        "transient",
		Kind(99):             "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
	if KindOf(errors.New("plain")) != KindUnknown {
		t.Error("plain errors have no kind")
	}
}

func TestRequireText(t *testing.T) {
	v, err := requireText("op", "title", "  Hello  ", 10)
	if err != nil || v != "Hello" {
		t.Fatalf("requireText = %q, %v", v, err)
	}
	if _, err := requireText("op", "title", "   ", 10); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("blank: expected invalid draft, got %v", err)
	}
	if _, err := requireText("op", "title", "ééééééééééé", 10); !errors.Is(err, ErrInvalidDraft) {
		t.Fatalf("too long: expected invalid draft, got %v", err)
	}
	if _, err := requireText("op", "title", "éééééééééé", 10); err != nil {
		t.Fatalf("limit counts runes: %v", err)
	}
}
