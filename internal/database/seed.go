package database

import (
	"context"
	"fmt"
	"log/slog"

	"forum/internal/forum"
	"forum/internal/models"
)

// Default development account and category created by Seed.
const (
	SeedUsername = "admin"
	SeedPassword = "admin"
	SeedCategory = "General"
)

// Accounts creates and looks up forum users.
type Accounts interface {
	CreateUser(ctx context.Context, username, email, password, displayName string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Seed populates the store with initial development data: a default admin
// account and a "General" category it owns. It is a no-op when the admin
// account already exists.
func Seed(ctx context.Context, accounts Accounts, svc *forum.Service) error {
	existing, err := accounts.FindUserByUsername(ctx, SeedUsername)
	if err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if existing != nil {
		slog.Info("database already seeded, skipping")
		return nil
	}

	admin, err := accounts.CreateUser(ctx, SeedUsername, "admin@forum.local", SeedPassword, "Admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	if _, err := svc.CreateCategory(ctx, forum.CategoryDraft{Name: SeedCategory}, admin.ID); err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"username", SeedUsername,
		"password", SeedPassword,
	)
	return nil
}
