// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// Category is a top-level grouping of topics. Names are unique across the
// forum. Categories carry no timestamps and are never touched by changes
// to their descendants.
type Category struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	AuthorID uuid.UUID `json:"author_id"`

	// Populated by store methods, ordered by topic creation time.
	TopicIDs []uuid.UUID `json:"topic_ids"`
}

// CategoryRef identifies a category by id and name.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CategoryView is a category together with its author and its topics,
// each topic carrying its own resolved author.
type CategoryView struct {
	Category
	Author Author         `json:"author"`
	Topics []TopicSummary `json:"topics"`
}

// CategorySummary is one row of the category index.
type CategorySummary struct {
	Category
	Author     Author `json:"author"`
	TopicCount int    `json:"topic_count"`
}
