// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a discussion thread inside a category.
// LastUpdatedAt never precedes CreatedAt and advances whenever the topic
// or one of its comments is created, edited or deleted.
type Topic struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	AuthorID      uuid.UUID `json:"author_id"`
	CategoryID    uuid.UUID `json:"category_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`

	// Populated by store methods, ordered by comment creation time.
	CommentIDs []uuid.UUID `json:"comment_ids"`
}

// TopicRef identifies a topic by id and title.
type TopicRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// TopicSummary is a topic with its resolved author, as listed under a category.
type TopicSummary struct {
	Topic
	Author Author `json:"author"`
}

// TopicView is a topic with its author, parent category and comments.
type TopicView struct {
	Topic
	Author   Author        `json:"author"`
	Category CategoryRef   `json:"category"`
	Comments []CommentView `json:"comments"`
}
