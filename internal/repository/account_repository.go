package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-portal/internal/domain"
)

// AccountPrivileges is a patch of the administrator-controlled account attributes. Nil
// fields keep their stored value; an empty Department clears it.
type AccountPrivileges struct {
	IsAdministrator   *bool
	IsDepartmentStaff *bool
	Department        *string
}

// AccountRepository defines persistence access for accounts, keyed by handle.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByHandle(ctx context.Context, handle string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error)
	// UpdatePrivileges applies the patch atomically and returns the account after and
	// before the write. ErrStaffWithoutDepartment is returned, and nothing written, when
	// the result would be staff without a department.
	UpdatePrivileges(ctx context.Context, handle string, privileges AccountPrivileges) (*domain.Account, domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `handle, display_name, email, phone, password_hash, is_administrator, is_department_staff,
               COALESCE(department, ''), created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (handle, display_name, email, phone, password_hash, is_administrator, is_department_staff, department)
        VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
        RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Handle,
		account.DisplayName,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.IsAdministrator,
		account.IsDepartmentStaff,
		account.Department,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	return translate(err)
}

func (r *accountRepository) GetByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE handle=$1`, handle))
	if err != nil {
		return nil, translate(err)
	}
	return account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE LOWER(email)=LOWER($1)`, email))
	if err != nil {
		return nil, translate(err)
	}
	return account, nil
}

func (r *accountRepository) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Department != "" {
		args = append(args, filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+strings.ToLower(term)+"%")
		clauses = append(clauses, fmt.Sprintf("(LOWER(handle) LIKE $%[1]d OR LOWER(display_name) LIKE $%[1]d OR LOWER(email) LIKE $%[1]d)", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE %s ORDER BY created_at DESC`, accountColumns, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *account)
	}
	return result, rows.Err()
}

func (r *accountRepository) UpdatePrivileges(ctx context.Context, handle string, privileges AccountPrivileges) (*domain.Account, domain.Account, error) {
	// prev locks the row so the returned previous flags are the ones this write replaced.
	query := `
        WITH prev AS (
            SELECT handle, is_administrator, is_department_staff, COALESCE(department, '') AS department
            FROM accounts WHERE handle=$4 FOR UPDATE
        )
        UPDATE accounts a SET
            is_administrator=COALESCE($1::boolean, a.is_administrator),
            is_department_staff=COALESCE($2::boolean, a.is_department_staff),
            department=CASE WHEN $3::text IS NULL THEN a.department ELSE NULLIF($3::text, '') END,
            updated_at=NOW()
        FROM prev
        WHERE a.handle=prev.handle
        RETURNING prev.is_administrator, prev.is_department_staff, prev.department, ` + qualified("a", accountColumns)

	var before domain.Account
	after, err := scanAccount(r.pool.QueryRow(ctx, query,
		privileges.IsAdministrator,
		privileges.IsDepartmentStaff,
		privileges.Department,
		handle,
	), &before.IsAdministrator, &before.IsDepartmentStaff, &before.Department)
	if err != nil {
		return nil, domain.Account{}, translate(err)
	}
	before.Handle = after.Handle
	return after, before, nil
}

func scanAccount(row pgx.Row, leading ...any) (*domain.Account, error) {
	var account domain.Account
	dest := append(leading,
		&account.Handle,
		&account.DisplayName,
		&account.Email,
		&account.Phone,
		&account.PasswordHash,
		&account.IsAdministrator,
		&account.IsDepartmentStaff,
		&account.Department,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &account, nil
}
