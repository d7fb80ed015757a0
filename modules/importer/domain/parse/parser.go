package parse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/modules/importer/domain/session"
)

// Parser turns a raw export payload into typed candidate records. Archive and
// CSV extraction live behind this boundary; the import pipeline never
// inspects file formats itself.
type Parser interface {
	Parse(ctx context.Context, r io.Reader) ([]session.CandidateRecord, error)
}

// ParseError reports that a payload could not be turned into candidates. No
// session is created when parsing fails.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse failed: " + e.Reason
}

type candidateInput struct {
	EntityType string          `json:"entityType"`
	Fields     json.RawMessage `json:"fields"`
	SourceRef  string          `json:"sourceRef"`
}

type jsonPayload struct {
	Records []candidateInput `json:"records"`
}

// JSONParser accepts pre-extracted export records as a JSON document of the
// form {"records": [{"entityType": ..., "fields": {...}, "sourceRef": ...}]}.
// It is the default Parser wired into the server; format-specific extractors
// convert their archives into this shape upstream.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Parse(_ context.Context, r io.Reader) ([]session.CandidateRecord, error) {
	var payload jsonPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, &ParseError{Reason: "invalid JSON payload: " + err.Error()}
	}

	candidates := make([]session.CandidateRecord, 0, len(payload.Records))
	for i, input := range payload.Records {
		entityType := record.EntityType(input.EntityType)
		if !entityType.Valid() {
			return nil, &ParseError{Reason: fmt.Sprintf("record %d: unknown entity type %q", i, input.EntityType)}
		}
		fields, err := record.DecodeFields(entityType, input.Fields)
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("record %d: %v", i, err)}
		}
		candidates = append(candidates, session.CandidateRecord{
			EntityType: entityType,
			Fields:     fields,
			SourceRef:  input.SourceRef,
		})
	}
	return candidates, nil
}
