// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"forum/internal/models"
)

// UserLookup finds accounts by their authenticated handle.
// It returns nil, nil when no account matches.
type UserLookup interface {
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Resolver maps an authenticated handle to a stable author id.
type Resolver struct {
	users UserLookup
}

// NewResolver returns a Resolver backed by users.
func NewResolver(users UserLookup) *Resolver {
	return &Resolver{users: users}
}

// ResolveAuthor returns the id of the account whose username is handle.
func (r *Resolver) ResolveAuthor(ctx context.Context, handle string) (uuid.UUID, error) {
	const op = "resolve author"

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return uuid.Nil, newError(KindNotAuthenticated, op, "no caller handle")
	}

	u, err := r.users.FindUserByUsername(ctx, handle)
	if err != nil {
		return uuid.Nil, transient(op, err)
	}
	if u == nil {
		return uuid.Nil, newError(KindUnknownCaller, op, "no account for %q", handle)
	}
	return u.ID, nil
}
