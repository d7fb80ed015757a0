package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/folioworks/vitae/modules/career/domain/record"
	"github.com/folioworks/vitae/pkg/eventbus"
)

type RecordService struct {
	repo      record.Repository
	publisher eventbus.EventBus
}

func NewRecordService(repo record.Repository, publisher eventbus.EventBus) *RecordService {
	return &RecordService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *RecordService) GetPaginated(ctx context.Context, workspaceID uuid.UUID, params *record.FindParams) ([]record.Record, int64, error) {
	return s.repo.GetPaginated(ctx, workspaceID, params)
}

func (s *RecordService) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (record.Record, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *RecordService) Create(ctx context.Context, workspaceID uuid.UUID, data *record.CreateDTO) (record.Record, error) {
	entity, err := data.ToEntity(workspaceID)
	if err != nil {
		return record.Record{}, err
	}
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return record.Record{}, err
	}
	s.publisher.Publish(record.NewCreatedEvent(created))
	return created, nil
}

func (s *RecordService) Update(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID, data *record.UpdateDTO) (record.Record, error) {
	existing, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return record.Record{}, err
	}
	fields, err := data.ToFields(existing.EntityType())
	if err != nil {
		return record.Record{}, err
	}
	updated, err := s.repo.Update(ctx, existing.WithFields(fields))
	if err != nil {
		return record.Record{}, err
	}
	s.publisher.Publish(record.NewUpdatedEvent(updated))
	return updated, nil
}

func (s *RecordService) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (record.Record, error) {
	entity, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return record.Record{}, err
	}
	if err := s.repo.Delete(ctx, workspaceID, id); err != nil {
		return record.Record{}, err
	}
	s.publisher.Publish(record.NewDeletedEvent(entity))
	return entity, nil
}
