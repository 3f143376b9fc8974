package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when the unique username index rejects an insert.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrDuplicateItem is returned when a mood board item id was already stored for the user.
	ErrDuplicateItem = errors.New("mood board item already exists")
)

// isDuplicateKey recognises unique violations from the translated gorm error or the raw driver message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	// mysql: Error 1062 Duplicate entry; sqlite: UNIQUE constraint failed
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
