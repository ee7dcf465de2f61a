// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"forum/internal/models"
)

// TopicDraft holds the fields of a topic to be created. The category is
// given either by id or by name; the id wins when both are set.
type TopicDraft struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	CategoryName string     `json:"category,omitempty"`
}

// TopicPatch holds the mutable fields of a topic. Nil means unchanged.
// CategoryName moves the topic to the category with that name.
type TopicPatch struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	CategoryName *string `json:"category"`
}

// resolveCategory finds the parent category of a new or moved topic and
// holds it for the rest of the unit.
func resolveCategory(tx Tx, op string, id *uuid.UUID, name string) (*models.Category, error) {
	if id != nil {
		c, err := tx.Category(*id, LockShare)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, newError(KindUnresolvedParent, op, "category %s does not exist", *id)
		}
		return c, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, newError(KindInvalidDraft, op, "category is required")
	}
	c, err := tx.CategoryByName(name, LockShare)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, newError(KindUnresolvedParent, op, "category %q does not exist", name)
	}
	return c, nil
}

// CreateTopic stores a new topic authored by author in an existing category.
func (s *Service) CreateTopic(ctx context.Context, d TopicDraft, author uuid.UUID) (*models.Topic, error) {
	const op = "create topic"

	if author == uuid.Nil {
		return nil, newError(KindNotAuthenticated, op, "caller is not authenticated")
	}
	title, err := requireText(op, "title", d.Title, maxTitleLen)
	if err != nil {
		return nil, err
	}
	desc, err := requireText(op, "description", d.Description, maxDescriptionLen)
	if err != nil {
		return nil, err
	}

	var t *models.Topic
	err = s.atomic(ctx, op, func(tx Tx) error {
		c, err := resolveCategory(tx, op, d.CategoryID, d.CategoryName)
		if err != nil {
			return err
		}

		at := s.stamp(time.Time{})
		t = &models.Topic{
			Title:         title,
			Description:   desc,
			AuthorID:      author,
			CategoryID:    c.ID,
			CreatedAt:     at,
			LastUpdatedAt: at,
			CommentIDs:    []uuid.UUID{},
		}
		return tx.InsertTopic(t)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("topic created", "id", t.ID, "category", t.CategoryID, "author", author)
	return t, nil
}

// FetchTopic returns the topic with its author, its category and its
// comments. It returns nil, nil if the topic does not exist.
func (s *Service) FetchTopic(ctx context.Context, id uuid.UUID) (*models.TopicView, error) {
	var view *models.TopicView
	err := s.atomic(ctx, "fetch topic", func(tx Tx) error {
		t, err := tx.Topic(id, LockNone)
		if err != nil || t == nil {
			return err
		}
		c, err := tx.Category(t.CategoryID, LockNone)
		if err != nil {
			return err
		}
		comments, err := tx.CommentsByTopic(id)
		if err != nil {
			return err
		}

		ids := []uuid.UUID{t.AuthorID}
		for _, cm := range comments {
			ids = append(ids, cm.AuthorID)
		}
		byID, err := authors(tx, ids...)
		if err != nil {
			return err
		}

		view = &models.TopicView{
			Topic:    *t,
			Author:   byID[t.AuthorID],
			Category: models.CategoryRef{ID: t.CategoryID},
			Comments: make([]models.CommentView, 0, len(comments)),
		}
		if c != nil {
			view.Category.Name = c.Name
		}
		ref := models.TopicRef{ID: t.ID, Title: t.Title}
		for _, cm := range comments {
			view.Comments = append(view.Comments, models.CommentView{
				Comment: cm,
				Author:  byID[cm.AuthorID],
				Topic:   ref,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateTopic edits a topic and advances its last activity. Only its
// author may do so.
func (s *Service) UpdateTopic(ctx context.Context, id uuid.UUID, p TopicPatch, author uuid.UUID) (*models.Topic, error) {
	const op = "update topic"

	var title, desc string
	var err error
	if p.Title != nil {
		if title, err = requireText(op, "title", *p.Title, maxTitleLen); err != nil {
			return nil, err
		}
	}
	if p.Description != nil {
		if desc, err = requireText(op, "description", *p.Description, maxDescriptionLen); err != nil {
			return nil, err
		}
	}

	var t *models.Topic
	err = s.atomic(ctx, op, func(tx Tx) error {
		cur, err := tx.Topic(id, LockNone)
		if err != nil {
			return err
		}
		if cur == nil {
			return newError(KindNotFound, op, "topic %s not found", id)
		}
		if err := Authorize(op, SubjectOf(cur), author); err != nil {
			return err
		}

		// Categories are locked before topics everywhere, so the target
		// category is resolved ahead of the topic row lock.
		var target *models.Category
		if p.CategoryName != nil {
			if target, err = resolveCategory(tx, op, nil, *p.CategoryName); err != nil {
				return err
			}
		}

		t, err = tx.Topic(id, LockUpdate)
		if err != nil {
			return err
		}
		if t == nil {
			return newError(KindNotFound, op, "topic %s not found", id)
		}

		if p.Title != nil {
			t.Title = title
		}
		if p.Description != nil {
			t.Description = desc
		}
		if target != nil {
			t.CategoryID = target.ID
		}
		t.LastUpdatedAt = s.stamp(t.LastUpdatedAt)
		return tx.UpdateTopic(t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTopic removes a topic and all of its comments. Only the topic's
// author may do so.
func (s *Service) DeleteTopic(ctx context.Context, id uuid.UUID, author uuid.UUID) (Removal, error) {
	const op = "delete topic"

	var removed Removal
	err := s.atomic(ctx, op, func(tx Tx) error {
		t, err := tx.Topic(id, LockUpdate)
		if err != nil {
			return err
		}
		if t == nil {
			return newError(KindNotFound, op, "topic %s not found", id)
		}
		if err := Authorize(op, SubjectOf(t), author); err != nil {
			return err
		}

		removed, err = removeTopic(tx, id)
		return err
	})
	if err != nil {
		return Removal{}, err
	}

	slog.Info("topic deleted", "id", id, "comments", removed.Comments)
	return removed, nil
}
