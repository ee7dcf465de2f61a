// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"forum/internal/models"
)

// CategoryDraft holds the fields of a category to be created.
type CategoryDraft struct {
	Name string `json:"name"`
}

// CategoryPatch holds the mutable fields of a category. Nil means unchanged.
type CategoryPatch struct {
	Name *string `json:"name"`
}

// ListCategories returns every category with its author and topic count,
// ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.CategorySummary, error) {
	var out []models.CategorySummary
	err := s.atomic(ctx, "list categories", func(tx Tx) error {
		cats, err := tx.ListCategories()
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, 0, len(cats))
		for _, c := range cats {
			ids = append(ids, c.AuthorID)
		}
		byID, err := authors(tx, ids...)
		if err != nil {
			return err
		}
		out = make([]models.CategorySummary, 0, len(cats))
		for _, c := range cats {
			out = append(out, models.CategorySummary{
				Category:   c,
				Author:     byID[c.AuthorID],
				TopicCount: len(c.TopicIDs),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CategoryNames returns the names of all categories in alphabetical order.
// Topic drafts name their category with one of these.
func (s *Service) CategoryNames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.atomic(ctx, "category names", func(tx Tx) error {
		cats, err := tx.ListCategories()
		if err != nil {
			return err
		}
		names = make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// CreateCategory stores a new category authored by author.
func (s *Service) CreateCategory(ctx context.Context, d CategoryDraft, author uuid.UUID) (*models.Category, error) {
	const op = "create category"

	if author == uuid.Nil {
		return nil, newError(KindNotAuthenticated, op, "caller is not authenticated")
	}
	name, err := requireText(op, "name", d.Name, maxCategoryNameLen)
	if err != nil {
		return nil, err
	}

	c := &models.Category{Name: name, AuthorID: author, TopicIDs: []uuid.UUID{}}
	err = s.atomic(ctx, op, func(tx Tx) error {
		if err := tx.InsertCategory(c); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				return newError(KindInvalidDraft, op, "category %q already exists", name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("category created", "id", c.ID, "name", c.Name, "author", author)
	return c, nil
}

// FetchCategory returns the category with its author and its topics.
// It returns nil, nil if the category does not exist.
func (s *Service) FetchCategory(ctx context.Context, id uuid.UUID) (*models.CategoryView, error) {
	var view *models.CategoryView
	err := s.atomic(ctx, "fetch category", func(tx Tx) error {
		c, err := tx.Category(id, LockNone)
		if err != nil || c == nil {
			return err
		}
		topics, err := tx.TopicsByCategory(id, LockNone)
		if err != nil {
			return err
		}

		ids := []uuid.UUID{c.AuthorID}
		for _, t := range topics {
			ids = append(ids, t.AuthorID)
		}
		byID, err := authors(tx, ids...)
		if err != nil {
			return err
		}

		view = &models.CategoryView{
			Category: *c,
			Author:   byID[c.AuthorID],
			Topics:   make([]models.TopicSummary, 0, len(topics)),
		}
		for _, t := range topics {
			view.Topics = append(view.Topics, models.TopicSummary{Topic: t, Author: byID[t.AuthorID]})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateCategory renames a category. Only its author may do so.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, p CategoryPatch, author uuid.UUID) (*models.Category, error) {
	const op = "update category"

	var name string
	if p.Name != nil {
		var err error
		if name, err = requireText(op, "name", *p.Name, maxCategoryNameLen); err != nil {
			return nil, err
		}
	}

	var c *models.Category
	err := s.atomic(ctx, op, func(tx Tx) error {
		var err error
		c, err = tx.Category(id, LockUpdate)
		if err != nil {
			return err
		}
		if c == nil {
			return newError(KindNotFound, op, "category %s not found", id)
		}
		if err := Authorize(op, SubjectOf(c), author); err != nil {
			return err
		}
		if p.Name == nil || name == c.Name {
			return nil
		}

		c.Name = name
		if err := tx.UpdateCategory(c); err != nil {
			if errors.Is(err, ErrDuplicateName) {
				return newError(KindInvalidDraft, op, "category %q already exists", name)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes a category together with all of its topics and
// their comments. Only the category's author may do so.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID, author uuid.UUID) (Removal, error) {
	const op = "delete category"

	var removed Removal
	err := s.atomic(ctx, op, func(tx Tx) error {
		c, err := tx.Category(id, LockUpdate)
		if err != nil {
			return err
		}
		if c == nil {
			return newError(KindNotFound, op, "category %s not found", id)
		}
		if err := Authorize(op, SubjectOf(c), author); err != nil {
			return err
		}

		removed, err = removeCategory(tx, id)
		return err
	})
	if err != nil {
		return Removal{}, err
	}

	slog.Info("category deleted",
		"id", id,
		"topics", removed.Topics,
		"comments", removed.Comments,
	)
	return removed, nil
}
