package database

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/wordrank/internal/model"
)

// TestCreateUser tests user creation and validation.
func TestCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("stores a valid user", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		user := &model.User{Username: " alice ", Email: "alice@example.com"}

		id, err := db.CreateUser(context.Background(), user)
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if id <= 0 || user.ID != id {
			t.Errorf("unexpected id %d (user.ID %d)", id, user.ID)
		}
		if user.Username != "alice" {
			t.Errorf("expected trimmed username, got %q", user.Username)
		}
	})

	t.Run("rejects invalid users", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		tests := []struct {
			user     *model.User
			expected error
		}{
			{user: &model.User{Username: "", Email: "a@example.com"}, expected: model.ErrEmptyUsername},
			{user: &model.User{Username: "bob", Email: "not-an-address"}, expected: model.ErrInvalidEmail},
			{user: nil, expected: model.ErrEmptyUsername},
		}
		for _, tt := range tests {
			_, err := db.CreateUser(context.Background(), tt.user)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		}

		users, err := db.ListUsers(context.Background(), 0)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 0 {
			t.Errorf("invalid users were stored: %v", users)
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		if _, err := db.CreateUser(ctx, &model.User{Username: "carol", Email: "c@example.com"}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		_, err := db.CreateUser(ctx, &model.User{Username: "carol", Email: "other@example.com"})
		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})
}

// TestListUsers tests listing with and without a limit.
func TestListUsers(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	names := []string{"ann", "ben", "cid"}
	for _, name := range names {
		if _, err := db.CreateUser(ctx, &model.User{Username: name, Email: name + "@example.com"}); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
	}

	all, err := db.ListUsers(ctx, 0)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}
	for i, u := range all {
		if u.Username != names[i] {
			t.Errorf("expected %q at %d, got %q", names[i], i, u.Username)
		}
		if u.Email != names[i]+"@example.com" {
			t.Errorf("unexpected email %q", u.Email)
		}
	}

	limited, err := db.ListUsers(ctx, 2)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 users, got %d", len(limited))
	}
}
