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

const categoryColumns = `id, name, author_id`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	if err := scanner.Scan(&c.ID, &c.Name, &c.AuthorID); err != nil {
		return nil, err
	}
	return &c, nil
}

// topicIDs returns the ids of a category's topics in creation order.
func (t *pgTx) topicIDs(categoryID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := t.tx.QueryContext(t.ctx,
		`SELECT id FROM topics WHERE category_id = $1 ORDER BY created_at, id`, categoryID)
	if err != nil {
		return nil, err
	}
	return collectIDs(rows)
}

// ListCategories returns all categories ordered by name, with topic ids.
func (t *pgTx) ListCategories() ([]models.Category, error) {
	rows, err := t.tx.QueryContext(t.ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	index := map[uuid.UUID]int{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.TopicIDs = []uuid.UUID{}
		index[c.ID] = len(items)
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topicRows, err := t.tx.QueryContext(t.ctx,
		`SELECT id, category_id FROM topics ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list category topics: %w", err)
	}
	defer topicRows.Close()

	for topicRows.Next() {
		var id, categoryID uuid.UUID
		if err := topicRows.Scan(&id, &categoryID); err != nil {
			return nil, fmt.Errorf("scan category topic: %w", err)
		}
		if i, ok := index[categoryID]; ok {
			items[i].TopicIDs = append(items[i].TopicIDs, id)
		}
	}
	return items, topicRows.Err()
}

// findCategory runs a single-category query and attaches its topic ids.
func (t *pgTx) findCategory(query string, arg any) (*models.Category, error) {
	c, err := scanCategory(t.tx.QueryRowContext(t.ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if c.TopicIDs, err = t.topicIDs(c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// Category retrieves a category by ID. Returns nil if not found.
func (t *pgTx) Category(id uuid.UUID, lock forum.Lock) (*models.Category, error) {
	c, err := t.findCategory(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`+lockClause(lock), id)
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// CategoryByName retrieves a category through the unique name index.
// Returns nil if not found.
func (t *pgTx) CategoryByName(name string, lock forum.Lock) (*models.Category, error) {
	c, err := t.findCategory(`SELECT `+categoryColumns+` FROM categories WHERE name = $1`+lockClause(lock), name)
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// InsertCategory inserts a new category and sets its generated ID.
func (t *pgTx) InsertCategory(c *models.Category) error {
	err := t.tx.QueryRowContext(t.ctx,
		`INSERT INTO categories (name, author_id) VALUES ($1, $2) RETURNING id`,
		c.Name, c.AuthorID,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return forum.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// UpdateCategory renames an existing category.
func (t *pgTx) UpdateCategory(c *models.Category) error {
	_, err := t.tx.ExecContext(t.ctx, `UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
	if isUniqueViolation(err) {
		return forum.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category row. Its topics must already be gone.
func (t *pgTx) DeleteCategory(id uuid.UUID) (int, error) {
	n, err := rowsAffected(t.tx.ExecContext(t.ctx, `DELETE FROM categories WHERE id = $1`, id))
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}
	return n, nil
}
