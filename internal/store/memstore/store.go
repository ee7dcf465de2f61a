// Package memstore is an in-memory forum.Store. A single mutex is held for
// the whole of an atomic unit, so units are serialized; an undo log restores
// the pre-unit state when a unit fails. It backs FORUM_STORAGE=memory and
// the tests of the packages above it.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"forum/internal/forum"
	"forum/internal/models"
)

// Store keeps users, categories, topics and comments in maps keyed by id.
type Store struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*models.User
	usernames  map[string]uuid.UUID
	emails     map[string]uuid.UUID
	categories map[uuid.UUID]*models.Category
	catNames   map[string]uuid.UUID
	topics     map[uuid.UUID]*models.Topic
	comments   map[uuid.UUID]*models.Comment
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:      make(map[uuid.UUID]*models.User),
		usernames:  make(map[string]uuid.UUID),
		emails:     make(map[string]uuid.UUID),
		categories: make(map[uuid.UUID]*models.Category),
		catNames:   make(map[string]uuid.UUID),
		topics:     make(map[uuid.UUID]*models.Topic),
		comments:   make(map[uuid.UUID]*models.Comment),
	}
}

// Atomic runs fn with exclusive access to the store. If fn returns an
// error, panics, or ctx is done by the time fn returns, every change fn
// made is undone.
func (s *Store) Atomic(ctx context.Context, fn func(tx forum.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{s: s}
	defer func() {
		t.done = true
		if rec := recover(); rec != nil {
			t.rollback()
			panic(rec)
		}
		if err != nil {
			t.rollback()
		}
	}()

	if err := fn(t); err != nil {
		return err
	}
	return ctx.Err()
}

// === Accounts ===

// CreateUser inserts an account with a bcrypt-hashed password.
func (s *Store) CreateUser(ctx context.Context, username, email, password, displayName string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernames[username]; ok {
		return nil, forum.ErrDuplicateUser
	}
	if _, ok := s.emails[strings.ToLower(email)]; ok {
		return nil, forum.ErrDuplicateUser
	}

	u := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	s.users[u.ID] = u
	s.usernames[username] = u.ID
	s.emails[strings.ToLower(email)] = u.ID

	cp := *u
	return &cp, nil
}

// FindUserByUsername returns the account with the given username, or nil.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, nil
	}
	cp := *s.users[id]
	return &cp, nil
}

// FindUserByID returns the account with the given id, or nil.
func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *Store) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Counts returns the number of categories, topics and comments stored.
func (s *Store) Counts() (categories, topics, comments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories), len(s.topics), len(s.comments)
}

// === Helpers ===

// byCreated orders rows by creation time, breaking ties on id.
func byCreated(aAt, bAt time.Time, aID, bID uuid.UUID) bool {
	if !aAt.Equal(bAt) {
		return aAt.Before(bAt)
	}
	return aID.String() < bID.String()
}

func (s *Store) topicIDs(categoryID uuid.UUID) []uuid.UUID {
	topics := make([]*models.Topic, 0)
	for _, t := range s.topics {
		if t.CategoryID == categoryID {
			topics = append(topics, t)
		}
	}
	sort.Slice(topics, func(i, j int) bool {
		return byCreated(topics[i].CreatedAt, topics[j].CreatedAt, topics[i].ID, topics[j].ID)
	})
	ids := make([]uuid.UUID, len(topics))
	for i, t := range topics {
		ids[i] = t.ID
	}
	return ids
}

func (s *Store) commentsOf(topicID uuid.UUID) []*models.Comment {
	out := make([]*models.Comment, 0)
	for _, c := range s.comments {
		if c.TopicID == topicID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return byCreated(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out
}
