// Package store is the identity and note store: all database access
// for User, Tenant and Note records. Note and tenant-user queries are
// always filtered by tenant ID, a record outside the caller's tenant
// is indistinguishable from one that does not exist.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Store wraps the database handle.
type Store struct {
	db *gorm.DB
}

// New builds a Store on top of an open database handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
