package store

import (
	"context"

	"github.com/w-h-a/culturelog/culture"
)

// Store is the remote record store capability. QueryByOwner returns the
// owner's records ordered by creation time, newest first.
type Store interface {
	Insert(ctx context.Context, fields culture.Fields) (string, error)
	QueryByOwner(ctx context.Context, ownerId string) ([]culture.Record, error)
	UpdateById(ctx context.Context, id string, fields culture.Fields) error
	DeleteById(ctx context.Context, id string) error
}
