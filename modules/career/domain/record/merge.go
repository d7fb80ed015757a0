package record

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var ErrMergeTypeMismatch = errors.New("cannot merge fields of different entity types")

// MergeFillEmpty copies candidate values onto existing, but only into fields
// that are empty on the existing side. Populated fields are never
// overwritten. The returned bool reports whether anything changed.
func MergeFillEmpty(existing, candidate Fields) (Fields, bool, error) {
	if existing.Type() != candidate.Type() {
		return nil, false, errors.Wrapf(ErrMergeTypeMismatch, "%s vs %s", existing.Type(), candidate.Type())
	}

	changed := false
	switch dst := existing.(type) {
	case *JobFields:
		src := candidate.(*JobFields)
		out := *dst
		changed = fillString(&out.Company, src.Company) || changed
		changed = fillString(&out.Title, src.Title) || changed
		changed = fillString(&out.Description, src.Description) || changed
		changed = fillString(&out.Location, src.Location) || changed
		changed = fillDate(&out.StartDate, src.StartDate) || changed
		changed = fillDate(&out.EndDate, src.EndDate) || changed
		return &out, changed, nil
	case *LearningFields:
		src := candidate.(*LearningFields)
		out := *dst
		changed = fillString(&out.Institution, src.Institution) || changed
		changed = fillString(&out.Degree, src.Degree) || changed
		changed = fillString(&out.Area, src.Area) || changed
		changed = fillDate(&out.StartDate, src.StartDate) || changed
		changed = fillDate(&out.EndDate, src.EndDate) || changed
		return &out, changed, nil
	case *SkillFields:
		src := candidate.(*SkillFields)
		out := *dst
		changed = fillString(&out.Name, src.Name) || changed
		changed = fillString(&out.Category, src.Category) || changed
		changed = fillString(&out.Level, src.Level) || changed
		return &out, changed, nil
	case *ProjectFields:
		src := candidate.(*ProjectFields)
		out := *dst
		changed = fillString(&out.Name, src.Name) || changed
		changed = fillString(&out.Description, src.Description) || changed
		changed = fillString(&out.URL, src.URL) || changed
		changed = fillDate(&out.StartDate, src.StartDate) || changed
		changed = fillDate(&out.EndDate, src.EndDate) || changed
		return &out, changed, nil
	case *PersonFields:
		src := candidate.(*PersonFields)
		out := *dst
		changed = fillString(&out.Name, src.Name) || changed
		changed = fillString(&out.Company, src.Company) || changed
		changed = fillString(&out.Title, src.Title) || changed
		changed = fillString(&out.Email, src.Email) || changed
		return &out, changed, nil
	case *InstitutionFields:
		src := candidate.(*InstitutionFields)
		out := *dst
		changed = fillString(&out.Name, src.Name) || changed
		changed = fillString(&out.Kind, src.Kind) || changed
		changed = fillString(&out.Location, src.Location) || changed
		return &out, changed, nil
	case *AchievementFields:
		src := candidate.(*AchievementFields)
		out := *dst
		changed = fillString(&out.Title, src.Title) || changed
		changed = fillString(&out.Issuer, src.Issuer) || changed
		changed = fillString(&out.Description, src.Description) || changed
		changed = fillDate(&out.Date, src.Date) || changed
		return &out, changed, nil
	}
	return nil, false, errors.Wrapf(ErrUnknownEntityType, "%q", existing.Type())
}

func fillString(dst *string, src string) bool {
	if strings.TrimSpace(*dst) != "" || strings.TrimSpace(src) == "" {
		return false
	}
	*dst = src
	return true
}

func fillDate(dst **time.Time, src *time.Time) bool {
	if *dst != nil || src == nil {
		return false
	}
	v := *src
	*dst = &v
	return true
}
