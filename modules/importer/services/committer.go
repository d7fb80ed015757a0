package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/modules/importer/domain/session"
	"github.com/folioworks/vitae/modules/importer/infrastructure/staging"
	"github.com/folioworks/vitae/pkg/composables"
	"github.com/folioworks/vitae/pkg/eventbus"
)

// Committer translates staged decisions into create/merge/skip effects
// against the persistent store.
type Committer struct {
	sessions  *staging.SessionStore
	records   record.Repository
	publisher eventbus.EventBus
}

func NewCommitter(sessions *staging.SessionStore, records record.Repository, publisher eventbus.EventBus) *Committer {
	return &Committer{
		sessions:  sessions,
		records:   records,
		publisher: publisher,
	}
}

// Commit applies a session's decisions in candidate order. The session is
// moved to committed before any effect is applied, and that transition is the
// single point of mutual exclusion: of two concurrent commits exactly one
// wins, the other gets ErrInvalidSessionState. Per-record store failures are
// collected in the result instead of aborting the batch.
func (c *Committer) Commit(ctx context.Context, sessionID uuid.UUID) (*session.CommitResult, error) {
	snapshot, err := c.sessions.Mutate(ctx, sessionID, func(s *session.ImportSession) error {
		if s.Status != session.StatusStaging {
			return session.ErrInvalidSessionState
		}
		s.Status = session.StatusCommitted
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &session.CommitResult{
		SessionID: sessionID,
		Records:   []session.CommitRecord{},
	}
	for _, candidate := range snapshot.Candidates {
		c.apply(ctx, snapshot.WorkspaceID, candidate, result)
	}

	composables.UseLogger(ctx).WithFields(map[string]any{
		"session_id": sessionID.String(),
		"created":    result.CommittedCount,
		"merged":     result.MergedCount,
		"skipped":    result.SkippedCount,
		"failed":     len(result.Errors),
	}).Info("import session committed")
	c.publisher.Publish(NewSessionCommittedEvent(result))

	return result, nil
}

func (c *Committer) apply(ctx context.Context, workspaceID uuid.UUID, candidate session.CandidateRecord, result *session.CommitResult) {
	fail := func(reason string) {
		result.Errors = append(result.Errors, session.CommitError{
			CandidateID: candidate.ID,
			Reason:      reason,
		})
	}

	switch candidate.Decision {
	case session.DecisionSkip:
		result.SkippedCount++

	case session.DecisionCreate:
		created, err := c.records.Create(ctx, record.New(workspaceID, candidate.Fields))
		if err != nil {
			fail(err.Error())
			return
		}
		result.CommittedCount++
		result.Records = append(result.Records, session.CommitRecord{
			CandidateID: candidate.ID,
			EntityID:    created.ID(),
			Decision:    session.DecisionCreate,
		})

	case session.DecisionMerge:
		if candidate.MatchedEntityID == uuid.Nil {
			fail(session.ErrMergeTargetRequired.Error())
			return
		}
		existing, err := c.records.GetByID(ctx, workspaceID, candidate.MatchedEntityID)
		if err != nil {
			fail(err.Error())
			return
		}
		merged, changed, err := record.MergeFillEmpty(existing.Fields(), candidate.Fields)
		if err != nil {
			fail(err.Error())
			return
		}
		if changed {
			if _, err := c.records.Update(ctx, existing.WithFields(merged)); err != nil {
				fail(err.Error())
				return
			}
		}
		result.MergedCount++
		result.Records = append(result.Records, session.CommitRecord{
			CandidateID: candidate.ID,
			EntityID:    existing.ID(),
			Decision:    session.DecisionMerge,
		})

	default:
		fail(session.ErrInvalidDecision.Error())
	}
}
