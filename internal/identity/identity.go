// Package identity supplies opaque unique IDs for newly created
// records. Callers only rely on uniqueness within a collection, not on
// any particular format.
package identity

import "github.com/google/uuid"

type Source interface {
	NewID() string
}

type uuidSource struct{}

func (uuidSource) NewID() string { return uuid.NewString() }

// NewUUIDSource returns the production Source, backed by random UUIDs.
func NewUUIDSource() Source { return uuidSource{} }
