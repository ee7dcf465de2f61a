// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package forum implements the ownership and cascading-consistency core of
// the forum: categories hold topics, topics hold comments. Every mutation
// takes the caller's author id explicitly, is authorized against the
// entity's author before anything is written, and runs together with its
// cascade effects inside a single Store.Atomic unit.
package forum

import (
	"context"
	"time"

	"github.com/google/uuid"

	"forum/internal/models"
)

// Service is the hierarchy store: create, fetch, update and delete for
// categories, topics and comments.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a Service persisting through store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// atomic runs fn as one unit and classifies any non-domain failure as transient.
func (s *Service) atomic(ctx context.Context, op string, fn func(tx Tx) error) error {
	return transient(op, s.store.Atomic(ctx, fn))
}

// stamp returns the current time, strictly after prev. Timestamps are
// kept at microsecond precision so they survive a PostgreSQL round trip.
func (s *Service) stamp(prev time.Time) time.Time {
	now := s.now().UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		now = prev.Add(time.Microsecond)
	}
	return now
}

// authors resolves the public projection of every id in ids.
func authors(tx Tx, ids ...uuid.UUID) (map[uuid.UUID]models.Author, error) {
	users, err := tx.UsersByID(ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Author, len(ids))
	for _, id := range ids {
		if u, ok := users[id]; ok {
			out[id] = u.AsAuthor()
		} else {
			out[id] = models.Author{ID: id}
		}
	}
	return out, nil
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
