package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// Store-level sentinels shared by the Postgres and in-memory implementations.
var (
	ErrNotFound  = fmt.Errorf("record %w", apperrors.ErrNotFound)
	ErrDuplicate = fmt.Errorf("record %w", apperrors.ErrConflict)

	ErrStaffWithoutDepartment = fmt.Errorf("department staff without department: %w", apperrors.ErrInconsistentAccountState)
)

const (
	uniqueViolation = "23505"
	checkViolation  = "23514"

	staffDepartmentConstraint = "accounts_staff_has_department"
)

// translate maps driver errors onto the store sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgErr.Code == checkViolation && pgErr.ConstraintName == staffDepartmentConstraint:
			return ErrStaffWithoutDepartment
		}
	}
	return err
}
