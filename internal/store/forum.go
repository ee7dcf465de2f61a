// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"forum/internal/forum"
	"forum/internal/models"
)

// ForumStore runs forum atomic units as PostgreSQL transactions.
type ForumStore struct {
	db    *sql.DB
	users *UserStore
}

// NewForumStore returns a ForumStore over db.
func NewForumStore(db *sql.DB) *ForumStore {
	return &ForumStore{db: db, users: NewUserStore(db)}
}

// Atomic runs fn inside a transaction. The transaction is rolled back if fn
// returns an error or panics, and committed otherwise.
func (s *ForumStore) Atomic(ctx context.Context, fn func(tx forum.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{ctx: ctx, tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// FindUserByUsername resolves an account outside of any unit.
func (s *ForumStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.FindUserByUsername(ctx, username)
}
