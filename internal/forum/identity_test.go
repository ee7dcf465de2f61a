// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forum/internal/forum"
	"forum/internal/models"
	"forum/internal/store/memstore"
)

type brokenLookup struct{}

func (brokenLookup) FindUserByUsername(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection reset")
}

func TestResolveAuthor(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	u, err := st.CreateUser(ctx, "carol", "carol@example.com", "secret", "")
	require.NoError(t, err)

	r := forum.NewResolver(st)

	id, err := r.ResolveAuthor(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	id, err = r.ResolveAuthor(ctx, " carol ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id, "handles are trimmed")

	id, err = r.ResolveAuthor(ctx, "")
	assert.ErrorIs(t, err, forum.ErrNotAuthenticated)
	assert.Equal(t, uuid.Nil, id)

	_, err = r.ResolveAuthor(ctx, "dave")
	assert.ErrorIs(t, err, forum.ErrUnknownCaller)

	_, err = forum.NewResolver(brokenLookup{}).ResolveAuthor(ctx, "carol")
	assert.ErrorIs(t, err, forum.ErrTransient)
}
