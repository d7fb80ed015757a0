package match

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/folioworks/vitae/modules/career/domain/record"
)

func hydrateRecord(t *testing.T, fields record.Fields, createdAt time.Time) record.Record {
	t.Helper()
	return record.Hydrate(uuid.New(), uuid.New(), fields, createdAt, createdAt)
}

func googleJob(t *testing.T) record.Record {
	t.Helper()
	return hydrateRecord(t, &record.JobFields{
		Company:   "Google",
		Title:     "Software Engineer",
		StartDate: date(t, "2020-01-01"),
		EndDate:   date(t, "2022-12-31"),
	}, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestFindDuplicate_ExactJobMatch(t *testing.T) {
	matcher := NewMatcher()
	existing := googleJob(t)

	candidate := &record.JobFields{
		Company:   "Google",
		Title:     "Software Engineer",
		StartDate: date(t, "2020-01-01"),
		EndDate:   date(t, "2022-12-31"),
	}
	result := matcher.FindDuplicate(candidate, []record.Record{existing})
	require.Equal(t, ConfidenceExact, result.Confidence)
	require.Equal(t, existing.ID(), result.MatchedID)
	require.InDelta(t, 100.0, result.Score, 1e-9)
}

func TestFindDuplicate_SuffixAndDateDrift(t *testing.T) {
	matcher := NewMatcher()
	existing := googleJob(t)

	candidate := &record.JobFields{
		Company:   "Google Inc.",
		Title:     "Software Engineer",
		StartDate: date(t, "2020-01-15"),
		EndDate:   date(t, "2022-12-31"),
	}
	result := matcher.FindDuplicate(candidate, []record.Record{existing})
	require.Contains(t, []Confidence{ConfidenceExact, ConfidenceLikely}, result.Confidence)
	require.Equal(t, existing.ID(), result.MatchedID)
}

func TestFindDuplicate_UnrelatedJob(t *testing.T) {
	matcher := NewMatcher()
	existing := googleJob(t)

	candidate := &record.JobFields{
		Company:   "Amazon",
		Title:     "Data Scientist",
		StartDate: date(t, "2023-01-01"),
	}
	result := matcher.FindDuplicate(candidate, []record.Record{existing})
	require.Equal(t, ConfidenceNone, result.Confidence)
	require.Equal(t, uuid.Nil, result.MatchedID)
	require.Less(t, result.Score, likelyThreshold)
}

func TestFindDuplicate_EmptyExistingSet(t *testing.T) {
	matcher := NewMatcher()
	result := matcher.FindDuplicate(&record.SkillFields{Name: "Go"}, nil)
	require.Equal(t, MatchResult{Confidence: ConfidenceNone, Score: 0, MatchedID: uuid.Nil}, result)
}

func TestFindDuplicate_SkillTiers(t *testing.T) {
	matcher := NewMatcher()
	existing := hydrateRecord(t, &record.SkillFields{Name: "PostgreSQL"}, time.Now())

	result := matcher.FindDuplicate(&record.SkillFields{Name: "PostgreSQL"}, []record.Record{existing})
	require.Equal(t, ConfidenceExact, result.Confidence)

	// "postgres" vs "postgresql": 2 edits over 10 runes -> 80
	result = matcher.FindDuplicate(&record.SkillFields{Name: "Postgres"}, []record.Record{existing})
	require.Equal(t, ConfidenceLikely, result.Confidence)
	require.Equal(t, existing.ID(), result.MatchedID)

	result = matcher.FindDuplicate(&record.SkillFields{Name: "Rust"}, []record.Record{existing})
	require.Equal(t, ConfidenceNone, result.Confidence)
	require.Equal(t, uuid.Nil, result.MatchedID)
}

func TestFindDuplicate_TieBreaksOnOldestRecord(t *testing.T) {
	matcher := NewMatcher()
	older := hydrateRecord(t, &record.SkillFields{Name: "Go"}, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := hydrateRecord(t, &record.SkillFields{Name: "Go"}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	result := matcher.FindDuplicate(&record.SkillFields{Name: "Go"}, []record.Record{newer, older})
	require.Equal(t, older.ID(), result.MatchedID)

	// Same outcome regardless of slice order.
	result = matcher.FindDuplicate(&record.SkillFields{Name: "Go"}, []record.Record{older, newer})
	require.Equal(t, older.ID(), result.MatchedID)
}

func TestFindDuplicate_MissingPrimaryFieldStillScores(t *testing.T) {
	matcher := NewMatcher()
	existing := googleJob(t)

	candidate := &record.JobFields{
		Title:     "Software Engineer",
		StartDate: date(t, "2020-01-01"),
		EndDate:   date(t, "2022-12-31"),
	}
	require.NotPanics(t, func() {
		result := matcher.FindDuplicate(candidate, []record.Record{existing})
		// title (30) + overlap (20), company contributes zero
		require.InDelta(t, 50.0, result.Score, 1e-9)
		require.Equal(t, ConfidenceNone, result.Confidence)
	})
}

func TestFindDuplicate_IgnoresOtherEntityTypes(t *testing.T) {
	matcher := NewMatcher()
	existingSkill := hydrateRecord(t, &record.SkillFields{Name: "Google"}, time.Now())

	result := matcher.FindDuplicate(&record.JobFields{Company: "Google"}, []record.Record{existingSkill})
	require.Equal(t, ConfidenceNone, result.Confidence)
	require.Equal(t, uuid.Nil, result.MatchedID)
}

func TestClassify(t *testing.T) {
	require.Equal(t, ConfidenceExact, Classify(100))
	require.Equal(t, ConfidenceExact, Classify(90))
	require.Equal(t, ConfidenceLikely, Classify(89.9))
	require.Equal(t, ConfidenceLikely, Classify(60))
	require.Equal(t, ConfidenceNone, Classify(59.9))
	require.Equal(t, ConfidenceNone, Classify(0))
}

func TestScore_AchievementDateTolerance(t *testing.T) {
	existing := &record.AchievementFields{Title: "AWS Certified", Issuer: "Amazon", Date: date(t, "2021-03-01")}
	candidate := &record.AchievementFields{Title: "AWS Certified", Issuer: "Amazon", Date: date(t, "2021-03-20")}

	score := Score(candidate, existing)
	// title + issuer full credit, date approx credit only
	require.InDelta(t, 50.0+30.0+20.0*approxStartCredit, score, 1e-9)
}
