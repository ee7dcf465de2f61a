// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forum

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"forum/internal/models"
)

// Removal counts the rows a delete removed, including cascaded descendants.
type Removal struct {
	Categories int `json:"categories"`
	Topics     int `json:"topics"`
	Comments   int `json:"comments"`
}

// Total returns the number of rows removed.
func (r Removal) Total() int {
	return r.Categories + r.Topics + r.Comments
}

func (r *Removal) add(o Removal) {
	r.Categories += o.Categories
	r.Topics += o.Topics
	r.Comments += o.Comments
}

// touchTopic advances a topic's last activity to at. The topic row must
// already be locked for update by the caller's unit.
func touchTopic(tx Tx, t *models.Topic, at time.Time) error {
	t.LastUpdatedAt = later(at, t.LastUpdatedAt)
	if err := tx.UpdateTopic(t); err != nil {
		return fmt.Errorf("touch topic %s: %w", t.ID, err)
	}
	return nil
}

// removeTopic deletes every comment of the topic, then the topic itself.
func removeTopic(tx Tx, topicID uuid.UUID) (Removal, error) {
	var r Removal

	n, err := tx.DeleteCommentsByTopic(topicID)
	if err != nil {
		return Removal{}, fmt.Errorf("remove comments of topic %s: %w", topicID, err)
	}
	r.Comments = n

	n, err = tx.DeleteTopic(topicID)
	if err != nil {
		return Removal{}, fmt.Errorf("remove topic %s: %w", topicID, err)
	}
	r.Topics = n

	return r, nil
}

// removeCategory removes every topic of the category (each with its
// comments), then the category itself. Topics are locked before removal
// so a concurrent comment create either lands before the cascade and is
// removed with it, or observes the topic gone.
func removeCategory(tx Tx, categoryID uuid.UUID) (Removal, error) {
	topics, err := tx.TopicsByCategory(categoryID, LockUpdate)
	if err != nil {
		return Removal{}, fmt.Errorf("list topics of category %s: %w", categoryID, err)
	}

	var r Removal
	for _, t := range topics {
		tr, err := removeTopic(tx, t.ID)
		if err != nil {
			return Removal{}, err
		}
		r.add(tr)
	}

	n, err := tx.DeleteCategory(categoryID)
	if err != nil {
		return Removal{}, fmt.Errorf("remove category %s: %w", categoryID, err)
	}
	r.Categories = n

	return r, nil
}
