package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/nao1215/wordrank/internal/model"
)

// CreateUser validates and stores user, returning its new ID.
// user.ID is set on success. Validation failures are returned unwrapped
// (model.ErrEmptyUsername, model.ErrInvalidEmail); a duplicate username
// wraps ErrConflict.
func (d *DB) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	if user == nil {
		return 0, model.ErrEmptyUsername
	}
	user.Normalize()
	if err := user.Validate(); err != nil {
		return 0, err
	}

	query := `INSERT INTO users (username, email) VALUES (?, ?)`

	result, err := d.db.ExecContext(ctx, query, user.Username, user.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: username %q", ErrConflict, user.Username)
		}
		return 0, storeError("failed to insert user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storeError("failed to read user id", err)
	}
	user.ID = id

	return id, nil
}

// ListUsers returns users in creation order.
// A non-positive limit means no limit.
func (d *DB) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	query := `SELECT id, username, email FROM users ORDER BY id`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, storeError("failed to scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("failed to list users", err)
	}

	return users, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	// Without extended result codes only the primary code is reported.
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), "UNIQUE")
}
