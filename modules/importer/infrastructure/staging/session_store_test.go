package staging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/modules/importer/domain/session"
	"github.com/folioworks/vitae/pkg/kv"
)

func newStore(t *testing.T) *SessionStore {
	t.Helper()
	memory := kv.NewMemoryStore()
	t.Cleanup(memory.Close)
	return NewSessionStore(memory, time.Hour)
}

func stagedSession(workspaceID uuid.UUID) *session.ImportSession {
	s := session.New(workspaceID)
	s.Candidates = append(s.Candidates, session.CandidateRecord{
		ID:         uuid.New(),
		EntityType: record.TypeSkill,
		Fields:     &record.SkillFields{Name: "Go"},
		Decision:   session.DecisionCreate,
	})
	return s
}

func TestSessionStore_PutGet(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	original := stagedSession(uuid.New())
	require.NoError(t, store.Put(ctx, original))

	loaded, err := store.Get(ctx, original.ID)
	require.NoError(t, err)
	require.Equal(t, original.ID, loaded.ID)
	require.Equal(t, original.WorkspaceID, loaded.WorkspaceID)
	require.Equal(t, session.StatusStaging, loaded.Status)
	require.Len(t, loaded.Candidates, 1)
	require.Equal(t, "Go", loaded.Candidates[0].Fields.(*record.SkillFields).Name)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := newStore(t)
	_, err := store.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionStore_MutateMissing(t *testing.T) {
	store := newStore(t)
	_, err := store.Mutate(context.Background(), uuid.New(), func(s *session.ImportSession) error {
		t.Error("mutator should not run")
		return nil
	})
	require.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestSessionStore_MutateErrorAbortsWrite(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	original := stagedSession(uuid.New())
	require.NoError(t, store.Put(ctx, original))

	_, err := store.Mutate(ctx, original.ID, func(s *session.ImportSession) error {
		s.Status = session.StatusCommitted
		return session.ErrInvalidSessionState
	})
	require.ErrorIs(t, err, session.ErrInvalidSessionState)

	loaded, err := store.Get(ctx, original.ID)
	require.NoError(t, err)
	require.Equal(t, session.StatusStaging, loaded.Status)
}

func TestSessionStore_ConcurrentTransitionHasOneWinner(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	original := stagedSession(uuid.New())
	require.NoError(t, store.Put(ctx, original))

	const attempts = 10
	results := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = store.Mutate(ctx, original.ID, func(s *session.ImportSession) error {
				if s.Status != session.StatusStaging {
					return session.ErrInvalidSessionState
				}
				s.Status = session.StatusCommitted
				return nil
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, session.ErrInvalidSessionState)
		}
	}
	require.Equal(t, 1, winners)
}

func TestSessionStore_Delete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	original := stagedSession(uuid.New())
	require.NoError(t, store.Put(ctx, original))
	require.NoError(t, store.Delete(ctx, original.ID))

	_, err := store.Get(ctx, original.ID)
	require.ErrorIs(t, err, session.ErrSessionNotFound)
}
