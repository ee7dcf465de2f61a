// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"forum/internal/forum"
	"forum/internal/models"
)

const topicColumns = `id, title, description, author_id, category_id, created_at, last_updated_at`

// scanTopic scans a row into a Topic struct.
func scanTopic(scanner interface{ Scan(...any) error }) (*models.Topic, error) {
	var tp models.Topic
	err := scanner.Scan(
		&tp.ID, &tp.Title, &tp.Description, &tp.AuthorID,
		&tp.CategoryID, &tp.CreatedAt, &tp.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

// commentIDs returns the ids of a topic's comments in creation order.
func (t *pgTx) commentIDs(topicID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT id FROM comments WHERE topic_id = $1 ORDER BY created_at, id`, topicID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// Topic retrieves a topic by ID with its comment ids. Returns nil if not found.
func (t *pgTx) Topic(id uuid.UUID, lock forum.Lock) (*models.Topic, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT `+topicColumns+` FROM topics WHERE id = $1`+lockClause(lock), id)
	tp, err := scanTopic(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find topic by id: %w", err)
	}
	if tp.CommentIDs, err = t.commentIDs(id); err != nil {
		return nil, fmt.Errorf("find topic comments: %w", err)
	}
	return tp, nil
}

// TopicsByCategory returns a category's topics in creation order. With a
// lock, PostgreSQL re-checks the category filter after waiting, so a topic
// moved away meanwhile is not returned.
func (t *pgTx) TopicsByCategory(categoryID uuid.UUID, lock forum.Lock) ([]models.Topic, error) {
	rows, err := t.tx.QueryContext(t.ctx, `
		SELECT `+topicColumns+`
		FROM topics
		WHERE category_id = $1
		ORDER BY created_at, id`+lockClause(lock), categoryID)
	if err != nil {
		return nil, fmt.Errorf("list topics by category: %w", err)
	}
	defer rows.Close()

	items := []models.Topic{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		tp, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		tp.CommentIDs = []uuid.UUID{}
		index[tp.ID] = len(items)
		items = append(items, *tp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	commentRows, err := t.tx.QueryContext(t.ctx, `
		SELECT c.id, c.topic_id
		FROM comments c
		JOIN topics tp ON tp.id = c.topic_id
		WHERE tp.category_id = $1
		ORDER BY c.created_at, c.id`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list topic comments: %w", err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var id, topicID uuid.UUID
		if err := commentRows.Scan(&id, &topicID); err != nil {
			return nil, fmt.Errorf("scan topic comment: %w", err)
		}
		if i, ok := index[topicID]; ok {
			items[i].CommentIDs = append(items[i].CommentIDs, id)
		}
	}
	return items, commentRows.Err()
}

// InsertTopic inserts a new topic and sets its generated ID.
func (t *pgTx) InsertTopic(tp *models.Topic) error {
	err := t.tx.QueryRowContext(t.ctx, `
		INSERT INTO topics (title, description, author_id, category_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		tp.Title, tp.Description, tp.AuthorID, tp.CategoryID, tp.CreatedAt, tp.LastUpdatedAt,
	).Scan(&tp.ID)
	if err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// UpdateTopic writes a topic's mutable fields and last activity.
func (t *pgTx) UpdateTopic(tp *models.Topic) error {
	_, err := t.tx.ExecContext(t.ctx, `
		UPDATE topics SET
			title = $1, description = $2, category_id = $3, last_updated_at = $4
		WHERE id = $5
	`, tp.Title, tp.Description, tp.CategoryID, tp.LastUpdatedAt, tp.ID)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return nil
}

// DeleteTopic removes a topic row. Its comments must already be gone.
func (t *pgTx) DeleteTopic(id uuid.UUID) (int, error) {
	n, err := rowsAffected(t.tx.ExecContext(t.ctx, `DELETE FROM topics WHERE id = $1`, id))
	if err != nil {
		return 0, fmt.Errorf("delete topic: %w", err)
	}
	return n, nil
}
