package kv

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound = errors.New("kv: key not found")
)

// Mutator transforms the current value of a key during an Update. Returning
// an error aborts the update and leaves the stored value untouched.
type Mutator func(current []byte) ([]byte, error)

// Store is a minimal expiring key-value abstraction. Backends must guarantee
// that for a given key at most one Update mutation is applied at a time and
// that the mutator always observes the latest committed value; this is the
// primitive session commits rely on for their single-winner semantics.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Update(ctx context.Context, key string, ttl time.Duration, fn Mutator) error
	Delete(ctx context.Context, key string) error
}
