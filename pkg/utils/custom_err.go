package utils

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrDatabaseError      = errors.New("database error")
	RecordNotFound        = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrMissingRenewalRef  = errors.New("select both a customer and a plan")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrDuplicateRecord    = errors.New("duplicate record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrPlanInUse          = errors.New("plan is referenced by active customers")
	ErrLocationInUse      = errors.New("pickup location is referenced by customers")
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrTooManyRequests    = errors.New("too many requests")
)

// IsUniqueViolation reports whether err came from a unique constraint.
// Dialects with TranslateError enabled surface gorm.ErrDuplicatedKey,
// raw pgx errors carry SQLSTATE 23505.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
