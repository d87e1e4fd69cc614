// Package store holds user records behind a small persistence interface
// with in-memory, Postgres, and MongoDB implementations.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Find when no record matches the id.
var ErrNotFound = errors.New("user not found")

// User is one stored user record. PasswordHash arrives pre-hashed; the
// plaintext never reaches this package and the hash never leaves it in JSON.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Page is one page of users plus pagination metadata.
type Page struct {
	Items       []User
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
}

// UserStore is the persistence collaborator for user records. Ids are
// store-assigned; single-record writes are atomic; the store imposes no
// transaction discipline across calls.
type UserStore interface {
	// Create persists a new record and returns its assigned id.
	Create(ctx context.Context, name, email, passwordHash string) (int64, error)
	// Find returns the record with the given id, or ErrNotFound.
	Find(ctx context.Context, id int64) (User, error)
	// Save overwrites an existing record.
	Save(ctx context.Context, u User) error
	// Delete removes a record, reporting whether it existed.
	Delete(ctx context.Context, id int64) (bool, error)
	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)
	// Paginate returns the requested page ordered by id ascending.
	Paginate(ctx context.Context, page, perPage int) (Page, error)
	// ListRecent returns the n most recently created records, newest first.
	ListRecent(ctx context.Context, n int) ([]User, error)
}

// lastPage computes the final page number for a total and page size,
// never less than 1.
func lastPage(total, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	last := (total + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}
	return last
}
