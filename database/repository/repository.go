// Package repository holds the error values shared by every store implementation.
package repository

import "errors"

var (
	// ErrNotFound is returned when the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned when an optimistic ledger write lost a race.
	ErrVersionConflict = errors.New("ledger version conflict")
	// ErrStatusConflict is returned when a conditional status transition did not match.
	ErrStatusConflict = errors.New("status transition conflict")
	// ErrDuplicate is returned when a document with the same id already exists.
	ErrDuplicate = errors.New("duplicate document")
)
