package staging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/folioworks/vitae/modules/importer/domain/session"
	"github.com/folioworks/vitae/pkg/kv"
)

const keyPrefix = "import:session:"

// SessionStore persists staged import sessions in an expiring key-value
// store. Abandoned sessions disappear when their TTL lapses.
type SessionStore struct {
	store kv.Store
	ttl   time.Duration
}

func NewSessionStore(store kv.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{store: store, ttl: ttl}
}

func (s *SessionStore) Put(ctx context.Context, entity *session.ImportSession) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return s.store.Put(ctx, sessionKey(entity.ID), data, s.ttl)
}

func (s *SessionStore) Get(ctx context.Context, id uuid.UUID) (*session.ImportSession, error) {
	data, err := s.store.Get(ctx, sessionKey(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeSession(data)
}

// Mutate applies fn to the stored session under the kv store's concurrency
// control and returns the mutated snapshot. An error from fn aborts the
// write and is returned unchanged; this is how status transitions stay
// single-winner under concurrent commits.
func (s *SessionStore) Mutate(ctx context.Context, id uuid.UUID, fn func(*session.ImportSession) error) (*session.ImportSession, error) {
	var snapshot *session.ImportSession
	err := s.store.Update(ctx, sessionKey(id), s.ttl, func(current []byte) ([]byte, error) {
		entity, err := decodeSession(current)
		if err != nil {
			return nil, err
		}
		if err := fn(entity); err != nil {
			return nil, err
		}
		next, err := json.Marshal(entity)
		if err != nil {
			return nil, errors.Wrap(err, "encode session")
		}
		snapshot = entity
		return next, nil
	})
	if errors.Is(err, kv.ErrNotFound) {
		return nil, session.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, sessionKey(id))
}

func sessionKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func decodeSession(data []byte) (*session.ImportSession, error) {
	entity := &session.ImportSession{}
	if err := json.Unmarshal(data, entity); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	return entity, nil
}
