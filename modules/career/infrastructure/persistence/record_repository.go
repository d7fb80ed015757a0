package persistence

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/folioworks/vitae/modules/career/domain/record"
)

const recordColumns = `id, workspace_id, entity_type, fields, created_at, updated_at`

type PgRecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) record.Repository {
	return &PgRecordRepository{pool: pool}
}

func (r *PgRecordRepository) ListByType(ctx context.Context, workspaceID uuid.UUID, t record.EntityType) ([]record.Record, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recordColumns+`
		 FROM career_records
		 WHERE workspace_id = $1 AND entity_type = $2
		 ORDER BY created_at, id`,
		workspaceID, string(t),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *PgRecordRepository) GetPaginated(ctx context.Context, workspaceID uuid.UUID, params *record.FindParams) ([]record.Record, int64, error) {
	if params == nil {
		params = &record.FindParams{}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + recordColumns + ` FROM career_records WHERE workspace_id = $1`
	countQuery := `SELECT COUNT(*) FROM career_records WHERE workspace_id = $1`
	args := []any{workspaceID}
	countArgs := []any{workspaceID}
	if params.Type != "" {
		query += ` AND entity_type = $2`
		countQuery += ` AND entity_type = $2`
		args = append(args, string(params.Type))
		countArgs = append(countArgs, string(params.Type))
	}
	query += ` ORDER BY created_at, id OFFSET $` + strconv.Itoa(len(args)+1) + ` LIMIT $` + strconv.Itoa(len(args)+2)
	args = append(args, offset, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *PgRecordRepository) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (record.Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+recordColumns+`
		 FROM career_records
		 WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	entity, err := scanRecord(row)
	if gerrors.Is(err, pgx.ErrNoRows) {
		return record.Record{}, record.ErrRecordNotFound
	}
	if err != nil {
		return record.Record{}, err
	}
	return entity, nil
}

func (r *PgRecordRepository) Create(ctx context.Context, entity record.Record) (record.Record, error) {
	fieldsJSON, err := json.Marshal(entity.Fields())
	if err != nil {
		return record.Record{}, gerrors.Wrap(err, "encode fields")
	}

	id := entity.ID()
	if id == uuid.Nil {
		id = uuid.New()
	}

	var createdAt, updatedAt time.Time
	err = r.pool.QueryRow(ctx,
		`INSERT INTO career_records (id, workspace_id, entity_type, fields)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at`,
		id, entity.WorkspaceID(), string(entity.EntityType()), fieldsJSON,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return record.Record{}, err
	}

	return record.Hydrate(id, entity.WorkspaceID(), entity.Fields(), createdAt, updatedAt), nil
}

func (r *PgRecordRepository) Update(ctx context.Context, entity record.Record) (record.Record, error) {
	fieldsJSON, err := json.Marshal(entity.Fields())
	if err != nil {
		return record.Record{}, gerrors.Wrap(err, "encode fields")
	}

	var createdAt, updatedAt time.Time
	err = r.pool.QueryRow(ctx,
		`UPDATE career_records
		 SET fields = $1, updated_at = now()
		 WHERE workspace_id = $2 AND id = $3
		 RETURNING created_at, updated_at`,
		fieldsJSON, entity.WorkspaceID(), entity.ID(),
	).Scan(&createdAt, &updatedAt)
	if gerrors.Is(err, pgx.ErrNoRows) {
		return record.Record{}, record.ErrRecordNotFound
	}
	if err != nil {
		return record.Record{}, err
	}

	return record.Hydrate(entity.ID(), entity.WorkspaceID(), entity.Fields(), createdAt, updatedAt), nil
}

func (r *PgRecordRepository) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM career_records WHERE workspace_id = $1 AND id = $2`,
		workspaceID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return record.ErrRecordNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (record.Record, error) {
	var (
		id          uuid.UUID
		workspaceID uuid.UUID
		entityType  string
		fieldsJSON  []byte
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &workspaceID, &entityType, &fieldsJSON, &createdAt, &updatedAt); err != nil {
		return record.Record{}, err
	}
	fields, err := record.DecodeFields(record.EntityType(entityType), fieldsJSON)
	if err != nil {
		return record.Record{}, err
	}
	return record.Hydrate(id, workspaceID, fields, createdAt, updatedAt), nil
}

func scanRecords(rows pgx.Rows) ([]record.Record, error) {
	out := make([]record.Record, 0)
	for rows.Next() {
		entity, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}
