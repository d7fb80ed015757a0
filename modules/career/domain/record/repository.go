package record

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrRecordNotFound = errors.New("career record not found")

type FindParams struct {
	Type   EntityType
	Limit  int
	Offset int
}

type Repository interface {
	// ListByType returns every record of the given type in the workspace,
	// oldest first. This is the read side the duplicate matcher scores against.
	ListByType(ctx context.Context, workspaceID uuid.UUID, t EntityType) ([]Record, error)
	GetPaginated(ctx context.Context, workspaceID uuid.UUID, params *FindParams) ([]Record, int64, error)
	GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (Record, error)
	Create(ctx context.Context, r Record) (Record, error)
	Update(ctx context.Context, r Record) (Record, error)
	Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error
}
