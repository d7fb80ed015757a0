package match

import (
	"time"

	"github.com/google/uuid"

	"github.com/folioworks/vitae/modules/career/domain/record"
)

// Confidence tiers a composite duplicate score. Ordered: exact > likely > none.
type Confidence string

const (
	ConfidenceExact  Confidence = "exact"
	ConfidenceLikely Confidence = "likely"
	ConfidenceNone   Confidence = "none"
)

const (
	exactThreshold  = 90.0
	likelyThreshold = 60.0

	// Credit for approximately equal start dates when the ranges themselves
	// do not overlap.
	approxStartCredit = 0.6
)

// MatchResult is the duplicate verdict for one candidate.
type MatchResult struct {
	Confidence Confidence `json:"confidence"`
	Score      float64    `json:"score"`
	MatchedID  uuid.UUID  `json:"matchedId"`
}

type textSignal struct {
	weight float64
	get    func(record.Fields) string
}

type temporalSignal struct {
	weight float64
	get    func(record.Fields) (start, end *time.Time)
}

// profile lists the statically-known comparison signals for one entity type.
// Weights within a profile sum to 1; the composite score is the weighted sum
// scaled to [0, 100].
type profile struct {
	text     []textSignal
	temporal *temporalSignal
}

var profiles = map[record.EntityType]profile{
	record.TypeJob: {
		text: []textSignal{
			{0.5, func(f record.Fields) string { return f.(*record.JobFields).Company }},
			{0.3, func(f record.Fields) string { return f.(*record.JobFields).Title }},
		},
		temporal: &temporalSignal{0.2, func(f record.Fields) (*time.Time, *time.Time) {
			job := f.(*record.JobFields)
			return job.StartDate, job.EndDate
		}},
	},
	record.TypeLearningItem: {
		text: []textSignal{
			{0.5, func(f record.Fields) string { return f.(*record.LearningFields).Institution }},
			{0.3, func(f record.Fields) string {
				learning := f.(*record.LearningFields)
				return joinNonEmpty(learning.Degree, learning.Area)
			}},
		},
		temporal: &temporalSignal{0.2, func(f record.Fields) (*time.Time, *time.Time) {
			learning := f.(*record.LearningFields)
			return learning.StartDate, learning.EndDate
		}},
	},
	record.TypeSkill: {
		text: []textSignal{
			{1.0, func(f record.Fields) string { return f.(*record.SkillFields).Name }},
		},
	},
	record.TypeProject: {
		text: []textSignal{
			{0.5, func(f record.Fields) string { return f.(*record.ProjectFields).Name }},
			{0.3, func(f record.Fields) string { return f.(*record.ProjectFields).Description }},
		},
		temporal: &temporalSignal{0.2, func(f record.Fields) (*time.Time, *time.Time) {
			project := f.(*record.ProjectFields)
			return project.StartDate, project.EndDate
		}},
	},
	record.TypePerson: {
		text: []textSignal{
			{0.7, func(f record.Fields) string { return f.(*record.PersonFields).Name }},
			{0.3, func(f record.Fields) string { return f.(*record.PersonFields).Company }},
		},
	},
	record.TypeInstitution: {
		text: []textSignal{
			{0.7, func(f record.Fields) string { return f.(*record.InstitutionFields).Name }},
			{0.3, func(f record.Fields) string { return f.(*record.InstitutionFields).Location }},
		},
	},
	record.TypeAchievement: {
		text: []textSignal{
			{0.5, func(f record.Fields) string { return f.(*record.AchievementFields).Title }},
			{0.3, func(f record.Fields) string { return f.(*record.AchievementFields).Issuer }},
		},
		temporal: &temporalSignal{0.2, func(f record.Fields) (*time.Time, *time.Time) {
			achievement := f.(*record.AchievementFields)
			return achievement.Date, achievement.Date
		}},
	},
}

type Matcher struct{}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// FindDuplicate scores candidate against every existing record of the same
// type and classifies the best composite score into a confidence tier. Ties
// prefer the oldest existing record. An empty existing set short-circuits to
// a none verdict.
func (m *Matcher) FindDuplicate(candidate record.Fields, existing []record.Record) MatchResult {
	none := MatchResult{Confidence: ConfidenceNone, Score: 0, MatchedID: uuid.Nil}
	if candidate == nil || len(existing) == 0 {
		return none
	}

	bestIdx := -1
	bestScore := 0.0
	for i, entity := range existing {
		if entity.EntityType() != candidate.Type() {
			continue
		}
		score := Score(candidate, entity.Fields())
		switch {
		case bestIdx < 0 || score > bestScore:
			bestIdx, bestScore = i, score
		case score == bestScore && entity.CreatedAt().Before(existing[bestIdx].CreatedAt()):
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return none
	}

	confidence := Classify(bestScore)
	result := MatchResult{Confidence: confidence, Score: bestScore, MatchedID: uuid.Nil}
	if confidence != ConfidenceNone {
		result.MatchedID = existing[bestIdx].ID()
	}
	return result
}

// Score computes the weighted composite score in [0, 100] between two field
// bags of the same entity type. A field missing on either side contributes
// zero for its signal rather than skipping the comparison.
func Score(candidate, existing record.Fields) float64 {
	if candidate == nil || existing == nil || candidate.Type() != existing.Type() {
		return 0
	}
	p, ok := profiles[candidate.Type()]
	if !ok {
		return 0
	}

	earned := 0.0
	for _, signal := range p.text {
		a := Normalize(signal.get(candidate))
		b := Normalize(signal.get(existing))
		if a == "" || b == "" {
			continue
		}
		earned += signal.weight * Similarity(a, b)
	}
	if p.temporal != nil {
		startA, endA := p.temporal.get(candidate)
		startB, endB := p.temporal.get(existing)
		switch {
		case DatesOverlap(startA, endA, startB, endB):
			earned += p.temporal.weight
		case DatesApproxEqual(startA, startB):
			earned += p.temporal.weight * approxStartCredit
		}
	}
	return earned * 100
}

// Classify maps a composite score to its confidence tier.
func Classify(score float64) Confidence {
	switch {
	case score >= exactThreshold:
		return ConfidenceExact
	case score >= likelyThreshold:
		return ConfidenceLikely
	default:
		return ConfidenceNone
	}
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += part
	}
	return out
}
