// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"forum/internal/forum"
	"forum/internal/models"
)

// pgTx implements forum.Tx over a *sql.Tx. Row locks requested through
// forum.Lock are held until the transaction ends.
type pgTx struct {
	ctx context.Context
	tx  *sql.Tx
}

// lockClause returns the row-locking suffix for a SELECT.
func lockClause(lock forum.Lock) string {
	switch lock {
	case forum.LockShare:
		return ` FOR SHARE`
	case forum.LockUpdate:
		return ` FOR UPDATE`
	default:
		return ``
	}
}

// rowsAffected returns the number of rows changed by a DELETE or UPDATE.
func rowsAffected(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// collectIDs reads a single uuid column from rows.
func collectIDs(rows *sql.Rows) ([]uuid.UUID, error) {
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UsersByID loads the accounts for ids; missing ids are left out.
func (t *pgTx) UsersByID(ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	out := make(map[uuid.UUID]models.User, len(ids))
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		row := t.tx.QueryRowContext(t.ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
		u, err := scanUser(row)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load user %s: %w", id, err)
		}
		out[id] = *u
	}
	return out, nil
}
