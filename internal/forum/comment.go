// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"forum/internal/models"
)

// CommentDraft holds the fields of a comment to be created.
type CommentDraft struct {
	Description string    `json:"description"`
	TopicID     uuid.UUID `json:"topic_id"`
}

// CommentPatch holds the mutable fields of a comment. Nil means unchanged.
type CommentPatch struct {
	Description *string `json:"description"`
}

// CreateComment stores a reply in an existing topic and advances the
// topic's last activity to the comment's creation time.
func (s *Service) CreateComment(ctx context.Context, d CommentDraft, author uuid.UUID) (*models.Comment, error) {
	const op = "create comment"

	if author == uuid.Nil {
		return nil, newError(KindNotAuthenticated, op, "caller is not authenticated")
	}
	desc, err := requireText(op, "description", d.Description, maxDescriptionLen)
	if err != nil {
		return nil, err
	}
	if d.TopicID == uuid.Nil {
		return nil, newError(KindInvalidDraft, op, "topic is required")
	}

	var c *models.Comment
	err = s.atomic(ctx, op, func(tx Tx) error {
		// The topic lock orders this create against a concurrent topic
		// delete: either the cascade sees this comment or we see no topic.
		t, err := tx.Topic(d.TopicID, LockUpdate)
		if err != nil {
			return err
		}
		if t == nil {
			return newError(KindUnresolvedParent, op, "topic %s does not exist", d.TopicID)
		}

		at := s.stamp(t.LastUpdatedAt)
		c = &models.Comment{
			Description:   desc,
			AuthorID:      author,
			TopicID:       t.ID,
			CreatedAt:     at,
			LastUpdatedAt: at,
		}
		if err := tx.InsertComment(c); err != nil {
			return err
		}
		return touchTopic(tx, t, at)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("comment created", "id", c.ID, "topic", c.TopicID, "author", author)
	return c, nil
}

// FetchComment returns the comment with its author and parent topic.
// It returns nil, nil if the comment does not exist.
func (s *Service) FetchComment(ctx context.Context, id uuid.UUID) (*models.CommentView, error) {
	var view *models.CommentView
	err := s.atomic(ctx, "fetch comment", func(tx Tx) error {
		c, err := tx.Comment(id, LockNone)
		if err != nil || c == nil {
			return err
		}
		t, err := tx.Topic(c.TopicID, LockNone)
		if err != nil {
			return err
		}
		byID, err := authors(tx, c.AuthorID)
		if err != nil {
			return err
		}

		view = &models.CommentView{
			Comment: *c,
			Author:  byID[c.AuthorID],
			Topic:   models.TopicRef{ID: c.TopicID},
		}
		if t != nil {
			view.Topic.Title = t.Title
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// lockedComment loads a comment for modification. The parent topic is
// locked first so comment and topic locks are always taken parent-first.
func lockedComment(tx Tx, op string, id, author uuid.UUID) (*models.Comment, *models.Topic, error) {
	cur, err := tx.Comment(id, LockNone)
	if err != nil {
		return nil, nil, err
	}
	if cur == nil {
		return nil, nil, newError(KindNotFound, op, "comment %s not found", id)
	}
	if err := Authorize(op, SubjectOf(cur), author); err != nil {
		return nil, nil, err
	}

	t, err := tx.Topic(cur.TopicID, LockUpdate)
	if err != nil {
		return nil, nil, err
	}
	c, err := tx.Comment(id, LockUpdate)
	if err != nil {
		return nil, nil, err
	}
	if t == nil || c == nil {
		return nil, nil, newError(KindNotFound, op, "comment %s not found", id)
	}
	return c, t, nil
}

// UpdateComment edits a comment and advances the parent topic's last
// activity. Only the comment's author may do so.
func (s *Service) UpdateComment(ctx context.Context, id uuid.UUID, p CommentPatch, author uuid.UUID) (*models.Comment, error) {
	const op = "update comment"

	var desc string
	if p.Description != nil {
		var err error
		if desc, err = requireText(op, "description", *p.Description, maxDescriptionLen); err != nil {
			return nil, err
		}
	}

	var c *models.Comment
	err := s.atomic(ctx, op, func(tx Tx) error {
		var t *models.Topic
		var err error
		c, t, err = lockedComment(tx, op, id, author)
		if err != nil {
			return err
		}

		at := s.stamp(later(c.LastUpdatedAt, t.LastUpdatedAt))
		if p.Description != nil {
			c.Description = desc
		}
		c.LastUpdatedAt = at
		if err := tx.UpdateComment(c); err != nil {
			return err
		}
		return touchTopic(tx, t, at)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteComment removes a comment and advances the parent topic's last
// activity. Only the comment's author may do so.
func (s *Service) DeleteComment(ctx context.Context, id uuid.UUID, author uuid.UUID) (Removal, error) {
	const op = "delete comment"

	var removed Removal
	err := s.atomic(ctx, op, func(tx Tx) error {
		_, t, err := lockedComment(tx, op, id, author)
		if err != nil {
			return err
		}

		n, err := tx.DeleteComment(id)
		if err != nil {
			return err
		}
		removed.Comments = n
		return touchTopic(tx, t, s.stamp(t.LastUpdatedAt))
	})
	if err != nil {
		return Removal{}, err
	}

	slog.Info("comment deleted", "id", id)
	return removed, nil
}
