package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

// FeedbackRepository stores one feedback entry per complaint.
type FeedbackRepository interface {
	// Create returns ErrDuplicate when the complaint already has feedback.
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByReference(ctx context.Context, reference string) (*domain.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository builds repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO complaint_feedback (complaint_reference, rating, comments, would_recommend)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query,
		feedback.Reference,
		feedback.Rating,
		feedback.Comments,
		feedback.WouldRecommend,
	).Scan(&feedback.CreatedAt)
	return translate(err)
}

func (r *feedbackRepository) GetByReference(ctx context.Context, reference string) (*domain.Feedback, error) {
	const query = `
        SELECT complaint_reference, rating, comments, would_recommend, created_at
        FROM complaint_feedback WHERE complaint_reference=$1`
	var feedback domain.Feedback
	if err := r.pool.QueryRow(ctx, query, reference).Scan(
		&feedback.Reference,
		&feedback.Rating,
		&feedback.Comments,
		&feedback.WouldRecommend,
		&feedback.CreatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &feedback, nil
}
