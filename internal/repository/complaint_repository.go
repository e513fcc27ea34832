package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/lifecycle"
)

// FieldUpdate is a single-column complaint write.
type FieldUpdate struct {
	Reference string
	Change    lifecycle.Change
	// Department, when set, must equal the stored department or nothing is written.
	Department string
	At         time.Time
}

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByReference(ctx context.Context, reference string) (*domain.Complaint, error)
	List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error)
	Count(ctx context.Context, filter domain.ComplaintFilter) (int, error)
	// UpdateField writes one field plus timestamps and returns the updated complaint and
	// the previous value. ErrNotFound covers both a missing reference and a failed
	// department guard.
	UpdateField(ctx context.Context, update FieldUpdate) (*domain.Complaint, string, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `reference, title, description, category, citizen_name, citizen_email, citizen_phone,
               latitude, longitude, address, attachment_ref, status, priority, COALESCE(department, ''),
               created_at, updated_at, resolved_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (reference, title, description, category, citizen_name, citizen_email, citizen_phone,
            latitude, longitude, address, attachment_ref, status, priority, department, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NULLIF($14, ''),$15,$15)`
	var lat, lng *float64
	if complaint.Location != nil {
		lat, lng = &complaint.Location.Latitude, &complaint.Location.Longitude
	}
	_, err := r.pool.Exec(ctx, query,
		complaint.Reference,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.CitizenName,
		complaint.CitizenEmail,
		complaint.CitizenPhone,
		lat,
		lng,
		complaint.Address,
		complaint.AttachmentRef,
		complaint.Status,
		complaint.Priority,
		complaint.Department,
		complaint.CreatedAt,
	)
	return translate(err)
}

func (r *complaintRepository) GetByReference(ctx context.Context, reference string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE reference=$1`
	complaint, err := scanComplaint(r.pool.QueryRow(ctx, query, reference))
	if err != nil {
		return nil, translate(err)
	}
	return complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	where, args := complaintWhere(filter)
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE %s ORDER BY created_at DESC`, complaintColumns, where)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *complaint)
	}
	return result, rows.Err()
}

func (r *complaintRepository) Count(ctx context.Context, filter domain.ComplaintFilter) (int, error) {
	where, args := complaintWhere(filter)
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM complaints WHERE `+where, args...).Scan(&total)
	return total, err
}

func (r *complaintRepository) UpdateField(ctx context.Context, update FieldUpdate) (*domain.Complaint, string, error) {
	column := "priority"
	if update.Change.Field == domain.FieldStatus {
		column = "status"
	}

	args := []any{update.Change.Value(), update.At.UTC(), update.Reference}
	guard := ""
	if update.Department != "" {
		args = append(args, update.Department)
		guard = fmt.Sprintf(" AND c.department=$%d", len(args))
	}

	resolved := ""
	if update.Change.Field == domain.FieldStatus {
		resolved = ", resolved_at = CASE WHEN c.resolved_at IS NULL AND $1='resolved' THEN $2 ELSE c.resolved_at END"
	}

	// The row lock in prev serializes same-field writers so the returned previous value
	// is the one actually replaced. Other columns are never written.
	query := fmt.Sprintf(`
        WITH prev AS (
            SELECT reference, %[1]s AS old_value FROM complaints WHERE reference=$3 FOR UPDATE
        )
        UPDATE complaints c SET %[1]s=$1, updated_at=$2%[2]s
        FROM prev
        WHERE c.reference=prev.reference%[3]s
        RETURNING prev.old_value, %[4]s`, column, resolved, guard, qualified("c", complaintColumns))

	row := r.pool.QueryRow(ctx, query, args...)
	var previous string
	complaint, err := scanComplaint(row, &previous)
	if err != nil {
		return nil, "", translate(err)
	}
	return complaint, previous, nil
}

func complaintWhere(filter domain.ComplaintFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %[1]s OR LOWER(description) LIKE %[1]s OR LOWER(address) LIKE %[1]s OR LOWER(reference) LIKE %[1]s)", placeholder))
	}
	return strings.Join(clauses, " AND "), args
}

// qualified prefixes each column of a column list with a table alias.
func qualified(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "COALESCE(") {
			part = "COALESCE(" + alias + "." + strings.TrimPrefix(part, "COALESCE(")
		} else if !strings.HasPrefix(part, "'") {
			part = alias + "." + part
		}
		parts[i] = part
	}
	return strings.Join(parts, ", ")
}

func scanComplaint(row pgx.Row, leading ...any) (*domain.Complaint, error) {
	var (
		complaint domain.Complaint
		lat, lng  *float64
	)
	dest := append(leading,
		&complaint.Reference,
		&complaint.Title,
		&complaint.Description,
		&complaint.Category,
		&complaint.CitizenName,
		&complaint.CitizenEmail,
		&complaint.CitizenPhone,
		&lat,
		&lng,
		&complaint.Address,
		&complaint.AttachmentRef,
		&complaint.Status,
		&complaint.Priority,
		&complaint.Department,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
		&complaint.ResolvedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		complaint.Location = &domain.GeoPoint{Latitude: *lat, Longitude: *lng}
	}
	return &complaint, nil
}
