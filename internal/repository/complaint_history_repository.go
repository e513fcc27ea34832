package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

// ComplaintHistoryRepository stores audit entries.
type ComplaintHistoryRepository interface {
	Create(ctx context.Context, history *domain.ComplaintHistory) error
	ListByReference(ctx context.Context, reference string) ([]domain.ComplaintHistory, error)
}

type complaintHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintHistoryRepository builds repository.
func NewComplaintHistoryRepository(pool *pgxpool.Pool) ComplaintHistoryRepository {
	return &complaintHistoryRepository{pool: pool}
}

func (r *complaintHistoryRepository) Create(ctx context.Context, history *domain.ComplaintHistory) error {
	const query = `
        INSERT INTO complaint_history (id, complaint_reference, field, old_value, new_value, changed_by, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		history.ID,
		history.Reference,
		history.Field,
		history.OldValue,
		history.NewValue,
		history.ChangedBy,
		history.CreatedAt,
	)
	return translate(err)
}

func (r *complaintHistoryRepository) ListByReference(ctx context.Context, reference string) ([]domain.ComplaintHistory, error) {
	const query = `
        SELECT id, complaint_reference, field, old_value, new_value, changed_by, created_at
        FROM complaint_history WHERE complaint_reference=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, reference)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintHistory
	for rows.Next() {
		var history domain.ComplaintHistory
		if err := rows.Scan(
			&history.ID,
			&history.Reference,
			&history.Field,
			&history.OldValue,
			&history.NewValue,
			&history.ChangedBy,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}
