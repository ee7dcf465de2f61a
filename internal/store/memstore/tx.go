package memstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"forum/internal/forum"
	"forum/internal/models"
)

// errTxDone is returned when a Tx is used after its unit has finished.
var errTxDone = errors.New("memstore: transaction already finished")

// tx applies changes directly to the store maps and records an inverse
// for each of them.
type tx struct {
	s    *Store
	undo []func()
	done bool
}

func (t *tx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *tx) check() error {
	if t.done {
		return errTxDone
	}
	return nil
}

// === Users ===

func (t *tx) UsersByID(ids []uuid.UUID) (map[uuid.UUID]models.User, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.User, len(ids))
	for _, id := range ids {
		if u, ok := t.s.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

// === Categories ===

func (t *tx) category(c *models.Category) *models.Category {
	cp := *c
	cp.TopicIDs = t.s.topicIDs(c.ID)
	return &cp
}

func (t *tx) ListCategories() ([]models.Category, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(t.s.categories))
	for _, c := range t.s.categories {
		out = append(out, *t.category(c))
	}
	return out, nil
}

func (t *tx) Category(id uuid.UUID, _ forum.Lock) (*models.Category, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	c, ok := t.s.categories[id]
	if !ok {
		return nil, nil
	}
	return t.category(c), nil
}

func (t *tx) CategoryByName(name string, lock forum.Lock) (*models.Category, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	id, ok := t.s.catNames[name]
	if !ok {
		return nil, nil
	}
	return t.Category(id, lock)
}

func (t *tx) InsertCategory(c *models.Category) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, taken := t.s.catNames[c.Name]; taken {
		return forum.ErrDuplicateName
	}

	c.ID = uuid.New()
	row := *c
	row.TopicIDs = nil
	t.s.categories[c.ID] = &row
	t.s.catNames[c.Name] = c.ID

	t.undo = append(t.undo, func() {
		delete(t.s.categories, row.ID)
		delete(t.s.catNames, row.Name)
	})
	return nil
}

func (t *tx) UpdateCategory(c *models.Category) error {
	if err := t.check(); err != nil {
		return err
	}
	old, ok := t.s.categories[c.ID]
	if !ok {
		return fmt.Errorf("update category %s: no such row", c.ID)
	}
	if other, taken := t.s.catNames[c.Name]; taken && other != c.ID {
		return forum.ErrDuplicateName
	}

	prev := *old
	old.Name = c.Name
	delete(t.s.catNames, prev.Name)
	t.s.catNames[c.Name] = c.ID

	t.undo = append(t.undo, func() {
		delete(t.s.catNames, old.Name)
		*old = prev
		t.s.catNames[prev.Name] = prev.ID
	})
	return nil
}

func (t *tx) DeleteCategory(id uuid.UUID) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	c, ok := t.s.categories[id]
	if !ok {
		return 0, nil
	}
	if n := len(t.s.topicIDs(id)); n > 0 {
		return 0, fmt.Errorf("delete category %s: still referenced by %d topics", id, n)
	}

	delete(t.s.categories, id)
	delete(t.s.catNames, c.Name)

	t.undo = append(t.undo, func() {
		t.s.categories[id] = c
		t.s.catNames[c.Name] = id
	})
	return 1, nil
}

// === Topics ===

func (t *tx) topic(row *models.Topic) *models.Topic {
	cp := *row
	comments := t.s.commentsOf(row.ID)
	cp.CommentIDs = make([]uuid.UUID, len(comments))
	for i, c := range comments {
		cp.CommentIDs[i] = c.ID
	}
	return &cp
}

func (t *tx) Topic(id uuid.UUID, _ forum.Lock) (*models.Topic, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	row, ok := t.s.topics[id]
	if !ok {
		return nil, nil
	}
	return t.topic(row), nil
}

func (t *tx) TopicsByCategory(categoryID uuid.UUID, _ forum.Lock) ([]models.Topic, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	ids := t.s.topicIDs(categoryID)
	out := make([]models.Topic, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.topic(t.s.topics[id]))
	}
	return out, nil
}

func (t *tx) InsertTopic(tp *models.Topic) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, ok := t.s.categories[tp.CategoryID]; !ok {
		return fmt.Errorf("insert topic: category %s does not exist", tp.CategoryID)
	}

	tp.ID = uuid.New()
	row := *tp
	row.CommentIDs = nil
	t.s.topics[tp.ID] = &row

	t.undo = append(t.undo, func() { delete(t.s.topics, row.ID) })
	return nil
}

func (t *tx) UpdateTopic(tp *models.Topic) error {
	if err := t.check(); err != nil {
		return err
	}
	row, ok := t.s.topics[tp.ID]
	if !ok {
		return fmt.Errorf("update topic %s: no such row", tp.ID)
	}
	if _, ok := t.s.categories[tp.CategoryID]; !ok {
		return fmt.Errorf("update topic: category %s does not exist", tp.CategoryID)
	}

	prev := *row
	row.Title = tp.Title
	row.Description = tp.Description
	row.CategoryID = tp.CategoryID
	row.LastUpdatedAt = tp.LastUpdatedAt

	t.undo = append(t.undo, func() { *row = prev })
	return nil
}

func (t *tx) DeleteTopic(id uuid.UUID) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	row, ok := t.s.topics[id]
	if !ok {
		return 0, nil
	}
	if n := len(t.s.commentsOf(id)); n > 0 {
		return 0, fmt.Errorf("delete topic %s: still referenced by %d comments", id, n)
	}

	delete(t.s.topics, id)
	t.undo = append(t.undo, func() { t.s.topics[id] = row })
	return 1, nil
}

// === Comments ===

func (t *tx) Comment(id uuid.UUID, _ forum.Lock) (*models.Comment, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	row, ok := t.s.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (t *tx) CommentsByTopic(topicID uuid.UUID) ([]models.Comment, error) {
	if err := t.check(); err != nil {
		return nil, err
	}
	rows := t.s.commentsOf(topicID)
	out := make([]models.Comment, len(rows))
	for i, c := range rows {
		out[i] = *c
	}
	return out, nil
}

func (t *tx) InsertComment(c *models.Comment) error {
	if err := t.check(); err != nil {
		return err
	}
	if _, ok := t.s.topics[c.TopicID]; !ok {
		return fmt.Errorf("insert comment: topic %s does not exist", c.TopicID)
	}

	c.ID = uuid.New()
	row := *c
	t.s.comments[c.ID] = &row

	t.undo = append(t.undo, func() { delete(t.s.comments, row.ID) })
	return nil
}

func (t *tx) UpdateComment(c *models.Comment) error {
	if err := t.check(); err != nil {
		return err
	}
	row, ok := t.s.comments[c.ID]
	if !ok {
		return fmt.Errorf("update comment %s: no such row", c.ID)
	}

	prev := *row
	row.Description = c.Description
	row.LastUpdatedAt = c.LastUpdatedAt

	t.undo = append(t.undo, func() { *row = prev })
	return nil
}

func (t *tx) DeleteComment(id uuid.UUID) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	row, ok := t.s.comments[id]
	if !ok {
		return 0, nil
	}

	delete(t.s.comments, id)
	t.undo = append(t.undo, func() { t.s.comments[id] = row })
	return 1, nil
}

func (t *tx) DeleteCommentsByTopic(topicID uuid.UUID) (int, error) {
	if err := t.check(); err != nil {
		return 0, err
	}
	rows := t.s.commentsOf(topicID)
	for _, c := range rows {
		delete(t.s.comments, c.ID)
	}

	t.undo = append(t.undo, func() {
		for _, c := range rows {
			t.s.comments[c.ID] = c
		}
	})
	return len(rows), nil
}
