// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reply within a topic.
type Comment struct {
	ID            uuid.UUID `json:"id"`
	Description   string    `json:"description"`
	AuthorID      uuid.UUID `json:"author_id"`
	TopicID       uuid.UUID `json:"topic_id"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// CommentView is a comment with its resolved author and parent topic.
type CommentView struct {
	Comment
	Author Author   `json:"author"`
	Topic  TopicRef `json:"topic"`
}
