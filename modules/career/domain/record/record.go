package record

import (
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// EntityType enumerates the closed set of career entities.
type EntityType string

const (
	TypeJob          EntityType = "job"
	TypeLearningItem EntityType = "learning_item"
	TypeSkill        EntityType = "skill"
	TypeProject      EntityType = "project"
	TypePerson       EntityType = "person"
	TypeInstitution  EntityType = "institution"
	TypeAchievement  EntityType = "achievement"
)

var ErrUnknownEntityType = errors.New("unknown entity type")

func AllTypes() []EntityType {
	return []EntityType{
		TypeJob, TypeLearningItem, TypeSkill, TypeProject,
		TypePerson, TypeInstitution, TypeAchievement,
	}
}

func (t EntityType) Valid() bool {
	switch t {
	case TypeJob, TypeLearningItem, TypeSkill, TypeProject, TypePerson, TypeInstitution, TypeAchievement:
		return true
	}
	return false
}

// Fields is the closed union of per-type attribute bags. Exactly one variant
// exists per EntityType; code switching over Fields can rely on that.
type Fields interface {
	Type() EntityType
	isFields()
}

type JobFields struct {
	Company     string     `json:"company,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type LearningFields struct {
	Institution string     `json:"institution,omitempty"`
	Degree      string     `json:"degree,omitempty"`
	Area        string     `json:"area,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type SkillFields struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Level    string `json:"level,omitempty"`
}

type ProjectFields struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	URL         string     `json:"url,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type PersonFields struct {
	Name    string `json:"name,omitempty"`
	Company string `json:"company,omitempty"`
	Title   string `json:"title,omitempty"`
	Email   string `json:"email,omitempty"`
}

type InstitutionFields struct {
	Name     string `json:"name,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Location string `json:"location,omitempty"`
}

type AchievementFields struct {
	Title       string     `json:"title,omitempty"`
	Issuer      string     `json:"issuer,omitempty"`
	Description string     `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

func (*JobFields) Type() EntityType         { return TypeJob }
func (*LearningFields) Type() EntityType    { return TypeLearningItem }
func (*SkillFields) Type() EntityType       { return TypeSkill }
func (*ProjectFields) Type() EntityType     { return TypeProject }
func (*PersonFields) Type() EntityType      { return TypePerson }
func (*InstitutionFields) Type() EntityType { return TypeInstitution }
func (*AchievementFields) Type() EntityType { return TypeAchievement }

func (*JobFields) isFields()         {}
func (*LearningFields) isFields()    {}
func (*SkillFields) isFields()       {}
func (*ProjectFields) isFields()     {}
func (*PersonFields) isFields()      {}
func (*InstitutionFields) isFields() {}
func (*AchievementFields) isFields() {}

// NewFields returns the zero variant for the given type, ready for decoding.
func NewFields(t EntityType) (Fields, error) {
	switch t {
	case TypeJob:
		return &JobFields{}, nil
	case TypeLearningItem:
		return &LearningFields{}, nil
	case TypeSkill:
		return &SkillFields{}, nil
	case TypeProject:
		return &ProjectFields{}, nil
	case TypePerson:
		return &PersonFields{}, nil
	case TypeInstitution:
		return &InstitutionFields{}, nil
	case TypeAchievement:
		return &AchievementFields{}, nil
	}
	return nil, errors.Wrapf(ErrUnknownEntityType, "%q", t)
}

// DecodeFields unmarshals a fields document into the variant matching t.
func DecodeFields(t EntityType, data []byte) (Fields, error) {
	fields, err := NewFields(t)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, fields); err != nil {
		return nil, errors.Wrap(err, "decode fields")
	}
	return fields, nil
}

// Record is a committed career entity owned by the persistent store.
type Record struct {
	id          uuid.UUID
	workspaceID uuid.UUID
	fields      Fields
	createdAt   time.Time
	updatedAt   time.Time
}

func New(workspaceID uuid.UUID, fields Fields) Record {
	return Record{
		workspaceID: workspaceID,
		fields:      fields,
	}
}

func Hydrate(
	id uuid.UUID,
	workspaceID uuid.UUID,
	fields Fields,
	createdAt time.Time,
	updatedAt time.Time,
) Record {
	return Record{
		id:          id,
		workspaceID: workspaceID,
		fields:      fields,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (r Record) ID() uuid.UUID          { return r.id }
func (r Record) WorkspaceID() uuid.UUID { return r.workspaceID }
func (r Record) EntityType() EntityType { return r.fields.Type() }
func (r Record) Fields() Fields         { return r.fields }
func (r Record) CreatedAt() time.Time   { return r.createdAt }
func (r Record) UpdatedAt() time.Time   { return r.updatedAt }
func (r Record) IsZero() bool           { return r.id == uuid.Nil && r.fields == nil }

// WithFields returns a copy of the record carrying the given fields.
func (r Record) WithFields(fields Fields) Record {
	r.fields = fields
	return r
}
