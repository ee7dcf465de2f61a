// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"context"

	"github.com/google/uuid"

	"forum/internal/models"
)

// Lock selects the row lock a Tx read takes for the rest of the unit.
type Lock int

const (
	LockNone   Lock = iota
	LockShare       // parent must not disappear while a child is attached
	LockUpdate      // row is about to be modified or removed
)

// Store is the persistence boundary of the forum core. Atomic runs fn as
// one unit: either every write fn made is committed or none is. The Tx
// must not be used after fn returns.
type Store interface {
	UserLookup
	Atomic(ctx context.Context, fn func(tx Tx) error) error
}

// Tx exposes row-level operations inside an atomic unit. Single-row reads
// return nil, nil when the row does not exist. Delete methods return the
// number of rows removed.
type Tx interface {
	UsersByID(ids []uuid.UUID) (map[uuid.UUID]models.User, error)

	ListCategories() ([]models.Category, error)
	Category(id uuid.UUID, lock Lock) (*models.Category, error)
	CategoryByName(name string, lock Lock) (*models.Category, error)
	InsertCategory(c *models.Category) error
	UpdateCategory(c *models.Category) error
	DeleteCategory(id uuid.UUID) (int, error)

	Topic(id uuid.UUID, lock Lock) (*models.Topic, error)
	TopicsByCategory(categoryID uuid.UUID, lock Lock) ([]models.Topic, error)
	InsertTopic(t *models.Topic) error
	UpdateTopic(t *models.Topic) error
	DeleteTopic(id uuid.UUID) (int, error)

	Comment(id uuid.UUID, lock Lock) (*models.Comment, error)
	CommentsByTopic(topicID uuid.UUID) ([]models.Comment, error)
	InsertComment(c *models.Comment) error
	UpdateComment(c *models.Comment) error
	DeleteComment(id uuid.UUID) (int, error)
	DeleteCommentsByTopic(topicID uuid.UUID) (int, error)
}
