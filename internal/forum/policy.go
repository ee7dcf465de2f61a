// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"fmt"

	"github.com/google/uuid"

	"forum/internal/models"
)

// EntityKind tags the three levels of the forum hierarchy.
type EntityKind string

const (
	EntityCategory EntityKind = "category"
	EntityTopic    EntityKind = "topic"
	EntityComment  EntityKind = "comment"
)

// Subject is the part of an entity the ownership policy looks at.
type Subject struct {
	Kind     EntityKind
	ID       uuid.UUID
	AuthorID uuid.UUID
}

// SubjectOf builds a Subject from a category, topic or comment.
// It panics on any other type.
func SubjectOf(entity any) Subject {
	switch e := entity.(type) {
	case *models.Category:
		return Subject{Kind: EntityCategory, ID: e.ID, AuthorID: e.AuthorID}
	case *models.Topic:
		return Subject{Kind: EntityTopic, ID: e.ID, AuthorID: e.AuthorID}
	case *models.Comment:
		return Subject{Kind: EntityComment, ID: e.ID, AuthorID: e.AuthorID}
	default:
		panic(fmt.Sprintf("forum: no ownership subject for %T", entity))
	}
}

// CanMutate reports whether caller may edit or delete the subject.
// Only the author may; the zero id never owns anything.
func CanMutate(s Subject, caller uuid.UUID) bool {
	return caller != uuid.Nil && s.AuthorID == caller
}

// Authorize returns nil when caller may mutate the subject,
// ErrNotAuthenticated for an anonymous caller and ErrForbidden otherwise.
func Authorize(op string, s Subject, caller uuid.UUID) error {
	if caller == uuid.Nil {
		return newError(KindNotAuthenticated, op, "caller is not authenticated")
	}
	if !CanMutate(s, caller) {
		return newError(KindForbidden, op, "%s %s is owned by another author", s.Kind, s.ID)
	}
	return nil
}
