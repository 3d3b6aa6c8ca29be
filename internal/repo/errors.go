package repo

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	ErrDuplicate     = errors.New("duplicate key")
)

// uniqueViolation maps a unique index violation from Postgres or SQLite to
// the sentinel for the offending users column.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return columnSentinel(pgErr.ConstraintName)
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}

	// glebarez/sqlite: "UNIQUE constraint failed: users.email (2067)"
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return columnSentinel(msg)
	}

	return nil
}

// columnSentinel matches on the index or column name only. Error details
// carry the duplicate value itself and must not be searched.
func columnSentinel(hint string) error {
	switch {
	case strings.Contains(hint, "username"):
		return ErrUsernameTaken
	case strings.Contains(hint, "email"):
		return ErrEmailTaken
	default:
		return ErrDuplicate
	}
}
