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

const commentColumns = `id, description, author_id, topic_id, created_at, last_updated_at`

// scanComment scans a row into a Comment struct.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.Description, &c.AuthorID, &c.TopicID, &c.CreatedAt, &c.LastUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Comment retrieves a comment by ID. Returns nil if not found.
func (t *pgTx) Comment(id uuid.UUID, lock forum.Lock) (*models.Comment, error) {
	row := t.tx.QueryRowContext(t.ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`+lockClause(lock), id)
	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// CommentsByTopic returns a topic's comments in creation order.
func (t *pgTx) CommentsByTopic(topicID uuid.UUID) ([]models.Comment, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT `+commentColumns+` FROM comments WHERE topic_id = $1 ORDER BY created_at, id`, topicID)
	if err != nil {
		return nil, fmt.Errorf("list comments by topic: %w", err)
	}
	defer rows.Close()

	items := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// InsertComment inserts a new comment and sets its generated ID.
func (t *pgTx) InsertComment(c *models.Comment) error {
	err := t.tx.QueryRowContext(t.ctx, `
		INSERT INTO comments (description, author_id, topic_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		c.Description, c.AuthorID, c.TopicID, c.CreatedAt, c.LastUpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// UpdateComment writes a comment's description and last update time.
func (t *pgTx) UpdateComment(c *models.Comment) error {
	_, err := t.tx.ExecContext(t.ctx,
		`UPDATE comments SET description = $1, last_updated_at = $2 WHERE id = $3`,
		c.Description, c.LastUpdatedAt, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// DeleteComment removes a single comment.
func (t *pgTx) DeleteComment(id uuid.UUID) (int, error) {
	n, err := rowsAffected(t.tx.ExecContext(t.ctx, `DELETE FROM comments WHERE id = $1`, id))
	if err != nil {
		return 0, fmt.Errorf("delete comment: %w", err)
	}
	return n, nil
}

// DeleteCommentsByTopic removes every comment of a topic.
func (t *pgTx) DeleteCommentsByTopic(topicID uuid.UUID) (int, error) {
	n, err := rowsAffected(t.tx.ExecContext(t.ctx, `DELETE FROM comments WHERE topic_id = $1`, topicID))
	if err != nil {
		return 0, fmt.Errorf("delete comments by topic: %w", err)
	}
	return n, nil
}
