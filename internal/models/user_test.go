package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name   string
		author Author
		want   string
	}{
		{name: "display name wins", author: Author{Username: "alice", DisplayName: "Alice A."}, want: "Alice A."},
		{name: "falls back to username", author: Author{Username: "bob"}, want: "bob"},
		{name: "empty", author: Author{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.author.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserAsAuthor(t *testing.T) {
	u := &User{
		ID:           uuid.New(),
		Username:     "carol",
		Email:        "carol@forum.local",
		PasswordHash: "secret",
		DisplayName:  "Carol",
	}

	a := u.AsAuthor()
	if a.ID != u.ID {
		t.Errorf("ID: got %s, want %s", a.ID, u.ID)
	}
	if a.Username != "carol" || a.DisplayName != "Carol" {
		t.Errorf("unexpected author projection: %+v", a)
	}
}
