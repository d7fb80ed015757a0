package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/modules/importer/domain/match"
	"github.com/folioworks/vitae/modules/importer/domain/parse"
	"github.com/folioworks/vitae/modules/importer/domain/session"
	"github.com/folioworks/vitae/modules/importer/infrastructure/staging"
	"github.com/folioworks/vitae/pkg/composables"
	"github.com/folioworks/vitae/pkg/eventbus"
)

// DecisionUpdate overrides the staged decision for one candidate.
type DecisionUpdate struct {
	CandidateID     uuid.UUID        `json:"candidateId"`
	Decision        session.Decision `json:"decision"`
	MatchedEntityID uuid.UUID        `json:"matchedEntityId"`
}

// DecisionError rejects a single update; the rest of the batch still applies.
type DecisionError struct {
	CandidateID uuid.UUID `json:"candidateId"`
	Reason      string    `json:"reason"`
}

// ImportService drives the upload -> stage -> decide -> commit lifecycle.
type ImportService struct {
	parser    parse.Parser
	matcher   *match.Matcher
	records   record.Repository
	sessions  *staging.SessionStore
	committer *Committer
	publisher eventbus.EventBus
}

func NewImportService(
	parser parse.Parser,
	matcher *match.Matcher,
	records record.Repository,
	sessions *staging.SessionStore,
	committer *Committer,
	publisher eventbus.EventBus,
) *ImportService {
	return &ImportService{
		parser:    parser,
		matcher:   matcher,
		records:   records,
		sessions:  sessions,
		committer: committer,
		publisher: publisher,
	}
}

// Upload parses a raw export, scores every candidate against the workspace's
// existing records and stages the result as a new session with default
// decisions applied. A parse failure creates no session. A parse producing
// zero candidates is not an error; the empty session is still staged.
func (s *ImportService) Upload(ctx context.Context, workspaceID uuid.UUID, r io.Reader) (*session.ImportSession, error) {
	candidates, err := s.parser.Parse(ctx, r)
	if err != nil {
		return nil, err
	}

	staged := session.New(workspaceID)
	existingByType := map[record.EntityType][]record.Record{}
	for _, candidate := range candidates {
		candidate.ID = uuid.New()

		existing, ok := existingByType[candidate.EntityType]
		if !ok {
			existing, err = s.records.ListByType(ctx, workspaceID, candidate.EntityType)
			if err != nil {
				return nil, err
			}
			existingByType[candidate.EntityType] = existing
		}

		verdict := s.matcher.FindDuplicate(candidate.Fields, existing)
		candidate.SuggestedMatch = &verdict
		candidate.Decision, candidate.MatchedEntityID = session.DefaultDecision(verdict)

		staged.Candidates = append(staged.Candidates, candidate)
	}

	if err := s.sessions.Put(ctx, staged); err != nil {
		return nil, err
	}

	composables.UseLogger(ctx).WithFields(map[string]any{
		"session_id": staged.ID.String(),
		"candidates": len(staged.Candidates),
	}).Info("import session staged")
	s.publisher.Publish(NewSessionStagedEvent(staged))

	return staged, nil
}

func (s *ImportService) GetSession(ctx context.Context, id uuid.UUID) (*session.ImportSession, error) {
	return s.sessions.Get(ctx, id)
}

// UpdateDecisions applies decision overrides item by item. Malformed updates
// are rejected individually and reported back; valid updates in the same
// batch still apply. The whole call fails only when the session is missing
// or no longer staging.
func (s *ImportService) UpdateDecisions(ctx context.Context, sessionID uuid.UUID, updates []DecisionUpdate) ([]DecisionError, error) {
	var itemErrors []DecisionError
	_, err := s.sessions.Mutate(ctx, sessionID, func(entity *session.ImportSession) error {
		if entity.Status != session.StatusStaging {
			return session.ErrInvalidSessionState
		}

		itemErrors = nil
		for _, update := range updates {
			candidate := entity.Candidate(update.CandidateID)
			switch {
			case candidate == nil:
				itemErrors = append(itemErrors, DecisionError{
					CandidateID: update.CandidateID,
					Reason:      session.ErrUnknownCandidate.Error(),
				})
			case !update.Decision.Valid():
				itemErrors = append(itemErrors, DecisionError{
					CandidateID: update.CandidateID,
					Reason:      session.ErrInvalidDecision.Error(),
				})
			case update.Decision == session.DecisionMerge && update.MatchedEntityID == uuid.Nil:
				itemErrors = append(itemErrors, DecisionError{
					CandidateID: update.CandidateID,
					Reason:      session.ErrMergeTargetRequired.Error(),
				})
			default:
				candidate.Decision = update.Decision
				if update.Decision == session.DecisionMerge {
					candidate.MatchedEntityID = update.MatchedEntityID
				} else {
					candidate.MatchedEntityID = uuid.Nil
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return itemErrors, nil
}

// Commit applies the session's decisions. Quick imports call this directly
// after Upload without overriding anything.
func (s *ImportService) Commit(ctx context.Context, sessionID uuid.UUID) (*session.CommitResult, error) {
	return s.committer.Commit(ctx, sessionID)
}

// Discard abandons a staged session. No external side effects exist before
// commit, so discarding is effect-free.
func (s *ImportService) Discard(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.sessions.Mutate(ctx, sessionID, func(entity *session.ImportSession) error {
		if entity.Status != session.StatusStaging {
			return session.ErrInvalidSessionState
		}
		entity.Status = session.StatusDiscarded
		return nil
	})
	if err != nil {
		return err
	}
	s.publisher.Publish(NewSessionDiscardedEvent(sessionID.String()))
	return nil
}
