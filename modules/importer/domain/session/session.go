package session

import (
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/modules/importer/domain/match"
)

// Decision is the action taken for one staged candidate at commit time.
type Decision string

const (
	DecisionCreate Decision = "create"
	DecisionMerge  Decision = "merge"
	DecisionSkip   Decision = "skip"
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionCreate, DecisionMerge, DecisionSkip:
		return true
	}
	return false
}

// Status is the lifecycle state of an import session. Committed and
// discarded are terminal.
type Status string

const (
	StatusStaging   Status = "staging"
	StatusCommitted Status = "committed"
	StatusDiscarded Status = "discarded"
)

// CandidateRecord is one parsed entity awaiting a create/merge/skip decision.
// The decision is always defined: it defaults from the suggested match the
// moment the candidate is staged.
type CandidateRecord struct {
	ID              uuid.UUID          `json:"id"`
	EntityType      record.EntityType  `json:"entityType"`
	Fields          record.Fields      `json:"-"`
	SourceRef       string             `json:"sourceRef,omitempty"`
	SuggestedMatch  *match.MatchResult `json:"suggestedMatch,omitempty"`
	Decision        Decision           `json:"decision"`
	MatchedEntityID uuid.UUID          `json:"matchedEntityId"`
}

type candidateJSON struct {
	ID              uuid.UUID          `json:"id"`
	EntityType      record.EntityType  `json:"entityType"`
	Fields          json.RawMessage    `json:"fields,omitempty"`
	SourceRef       string             `json:"sourceRef,omitempty"`
	SuggestedMatch  *match.MatchResult `json:"suggestedMatch,omitempty"`
	Decision        Decision           `json:"decision"`
	MatchedEntityID uuid.UUID          `json:"matchedEntityId"`
}

func (c CandidateRecord) MarshalJSON() ([]byte, error) {
	doc := candidateJSON{
		ID:              c.ID,
		EntityType:      c.EntityType,
		SourceRef:       c.SourceRef,
		SuggestedMatch:  c.SuggestedMatch,
		Decision:        c.Decision,
		MatchedEntityID: c.MatchedEntityID,
	}
	if c.Fields != nil {
		raw, err := json.Marshal(c.Fields)
		if err != nil {
			return nil, err
		}
		doc.Fields = raw
	}
	return json.Marshal(doc)
}

func (c *CandidateRecord) UnmarshalJSON(data []byte) error {
	var doc candidateJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	fields, err := record.DecodeFields(doc.EntityType, doc.Fields)
	if err != nil {
		return err
	}
	*c = CandidateRecord{
		ID:              doc.ID,
		EntityType:      doc.EntityType,
		Fields:          fields,
		SourceRef:       doc.SourceRef,
		SuggestedMatch:  doc.SuggestedMatch,
		Decision:        doc.Decision,
		MatchedEntityID: doc.MatchedEntityID,
	}
	return nil
}

// DefaultDecision derives the initial decision for a staged candidate from
// its match verdict: any confident match merges into the matched record,
// everything else creates a new one. Quick imports commit exactly these
// defaults.
func DefaultDecision(m match.MatchResult) (Decision, uuid.UUID) {
	switch m.Confidence {
	case match.ConfidenceExact, match.ConfidenceLikely:
		if m.MatchedID != uuid.Nil {
			return DecisionMerge, m.MatchedID
		}
	}
	return DecisionCreate, uuid.Nil
}

// ImportSession is the unit of staging: one upload's candidates, held until
// committed or discarded.
type ImportSession struct {
	ID          uuid.UUID         `json:"id"`
	WorkspaceID uuid.UUID         `json:"workspaceId"`
	Status      Status            `json:"status"`
	Candidates  []CandidateRecord `json:"candidates"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func New(workspaceID uuid.UUID) *ImportSession {
	return &ImportSession{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Status:      StatusStaging,
		Candidates:  []CandidateRecord{},
		CreatedAt:   time.Now().UTC(),
	}
}

// Candidate returns a pointer into Candidates for the given id, or nil.
func (s *ImportSession) Candidate(id uuid.UUID) *CandidateRecord {
	for i := range s.Candidates {
		if s.Candidates[i].ID == id {
			return &s.Candidates[i]
		}
	}
	return nil
}

// CommitRecord is the outcome for one non-skipped candidate.
type CommitRecord struct {
	CandidateID uuid.UUID `json:"candidateId"`
	EntityID    uuid.UUID `json:"entityId"`
	Decision    Decision  `json:"decision"`
}

// CommitError captures a single candidate's persistence failure; the commit
// itself proceeds past it.
type CommitError struct {
	CandidateID uuid.UUID `json:"candidateId"`
	Reason      string    `json:"reason"`
}

// CommitResult summarizes one successful commit. The three count buckets are
// mutually exclusive; errored candidates count toward none of them.
type CommitResult struct {
	SessionID      uuid.UUID      `json:"sessionId"`
	CommittedCount int            `json:"committedCount"`
	MergedCount    int            `json:"mergedCount"`
	SkippedCount   int            `json:"skippedCount"`
	Records        []CommitRecord `json:"records"`
	Errors         []CommitError  `json:"errors,omitempty"`
}

var (
	ErrSessionNotFound     = errors.New("import session not found")
	ErrInvalidSessionState = errors.New("import session is not in staging state")
	ErrMergeTargetRequired = errors.New("merge decision requires a matched entity id")
	ErrUnknownCandidate    = errors.New("unknown candidate id")
	ErrInvalidDecision     = errors.New("invalid decision")
)
