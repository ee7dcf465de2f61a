// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"forum/internal/models"
)

func TestCanMutate(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cases := []struct {
		name   string
		author uuid.UUID
		caller uuid.UUID
		allow  bool
	}{
		{name: "owner", author: owner, caller: owner, allow: true},
		{name: "other author", author: owner, caller: other, allow: false},
		{name: "anonymous caller", author: owner, caller: uuid.Nil, allow: false},
		{name: "unowned subject anonymous caller", author: uuid.Nil, caller: uuid.Nil, allow: false},
		{name: "unowned subject", author: uuid.Nil, caller: other, allow: false},
	}

	for _, kind := range []EntityKind{EntityCategory, EntityTopic, EntityComment} {
		for _, tc := range cases {
			t.Run(string(kind)+" "+tc.name, func(t *testing.T) {
				s := Subject{Kind: kind, ID: uuid.New(), AuthorID: tc.author}
				if got := CanMutate(s, tc.caller); got != tc.allow {
					t.Fatalf("CanMutate(%v, %s) = %v, want %v", s, tc.caller, got, tc.allow)
				}
			})
		}
	}
}

func TestAuthorize(t *testing.T) {
	owner := uuid.New()
	s := Subject{Kind: EntityComment, ID: uuid.New(), AuthorID: owner}

	if err := Authorize("edit", s, owner); err != nil {
		t.Fatalf("owner: unexpected error: %v", err)
	}
	if err := Authorize("edit", s, uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other: expected forbidden, got %v", err)
	}
	if err := Authorize("edit", s, uuid.Nil); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("anonymous: expected not authenticated, got %v", err)
	}
}

func TestSubjectOf(t *testing.T) {
	author := uuid.New()
	id := uuid.New()

	cases := []struct {
		entity any
		kind   EntityKind
	}{
		{&models.Category{ID: id, AuthorID: author}, EntityCategory},
		{&models.Topic{ID: id, AuthorID: author}, EntityTopic},
		{&models.Comment{ID: id, AuthorID: author}, EntityComment},
	}
	for _, tc := range cases {
		s := SubjectOf(tc.entity)
		if s.Kind != tc.kind || s.ID != id || s.AuthorID != author {
			t.Errorf("SubjectOf(%T) = %+v", tc.entity, s)
		}
	}
}

func TestSubjectOfUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown entity type")
		}
	}()
	SubjectOf(models.User{})
}
