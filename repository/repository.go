// Package repository persists guilds, members, submissions and kudos behind a
// shared connection pool handle. Every call borrows a pooled connection for
// its own duration only; each statement commits on its own.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store bundles the per-table stores over one shared pool handle.
type Store struct {
	Guilds      *GuildStore
	Members     *MemberStore
	Submissions *SubmissionStore
	Kudos       *KudoStore
}

func New(db *gorm.DB) *Store {
	return &Store{
		Guilds:      &GuildStore{db: db},
		Members:     &MemberStore{db: db},
		Submissions: &SubmissionStore{db: db},
		Kudos:       &KudoStore{db: db},
	}
}

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnknownField rejects a correction for a column outside the allow-list.
	ErrUnknownField = errors.New("unknown field name")
	// ErrInvalidValue rejects a correction value before any query runs.
	ErrInvalidValue = errors.New("invalid value")
	// ErrConflict reports a uniqueness collision while applying a change.
	ErrConflict = errors.New("conflicts with an existing row")
)

// isUniqueViolation reports whether err came from a unique-constraint breach.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint") || strings.Contains(s, "UNIQUE constraint")
}
