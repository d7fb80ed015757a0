package record

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/folioworks/vitae/pkg/constants"
)

type CreateDTO struct {
	EntityType string          `json:"entityType" validate:"required"`
	Fields     json.RawMessage `json:"fields" validate:"required"`
}

type UpdateDTO struct {
	Fields json.RawMessage `json:"fields" validate:"required"`
}

func (d *CreateDTO) Ok() (map[string]string, bool) {
	errs := constants.Validate.Struct(d)
	fieldErrors := validationFieldErrors(errs)
	if !EntityType(d.EntityType).Valid() && fieldErrors["EntityType"] == "" {
		fieldErrors["EntityType"] = "unknown entity type"
	}
	return fieldErrors, len(fieldErrors) == 0
}

func (d *CreateDTO) ToEntity(workspaceID uuid.UUID) (Record, error) {
	fields, err := DecodeFields(EntityType(d.EntityType), d.Fields)
	if err != nil {
		return Record{}, err
	}
	return New(workspaceID, fields), nil
}

func (d *UpdateDTO) Ok() (map[string]string, bool) {
	fieldErrors := validationFieldErrors(constants.Validate.Struct(d))
	return fieldErrors, len(fieldErrors) == 0
}

func (d *UpdateDTO) ToFields(t EntityType) (Fields, error) {
	return DecodeFields(t, d.Fields)
}

func validationFieldErrors(errs error) map[string]string {
	fieldErrors := map[string]string{}
	if errs == nil {
		return fieldErrors
	}
	validatorErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		fieldErrors["_"] = errs.Error()
		return fieldErrors
	}
	for _, err := range validatorErrs {
		fieldErrors[err.Field()] = "failed validation: " + err.Tag()
	}
	return fieldErrors
}
