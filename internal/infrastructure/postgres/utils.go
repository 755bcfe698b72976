package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/gestinvlab-api/internal/domain"
)

// Códigos SQLSTATE usados por el motor.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeLockNotAvailable     = "55P03"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeQueryCanceled        = "57014"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// classify traduce un error de PostgreSQL a la taxonomía del motor de movimientos.
// Contención (lock_timeout, deadlock, serialización, statement_timeout) → ConflictError reintentable.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsEngineError(err) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected, codeQueryCanceled:
			return &domain.ConflictError{Op: op, Err: err}
		case codeCheckViolation:
			if kind := checkKind(pgErr.ConstraintName); kind != domain.ErrInsufficientStock {
				return domain.NewValidationError(kind, -1, pgErr.ConstraintName, "")
			}
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, domain.ErrInsufficientStock)
		case codeForeignKeyViolation:
			return domain.NewValidationError(foreignKeyKind(pgErr.ConstraintName), -1, pgErr.ConstraintName, pgErr.Detail)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.ConflictError{Op: op, Err: err}
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

// Nombres de constraints definidos en migrations/000001_init.up.sql.
func foreignKeyKind(constraint string) error {
	switch constraint {
	case "batches_item_id_fkey":
		return domain.ErrUnknownItem
	case "movement_lines_batch_id_fkey":
		return domain.ErrUnknownBatch
	case "movements_destination_service_id_fkey":
		return domain.ErrUnknownService
	default:
		return domain.ErrInvalidInput
	}
}

func checkKind(constraint string) error {
	switch constraint {
	case "batches_stock_check", "items_total_stock_check":
		return domain.ErrInsufficientStock
	case "movement_lines_quantity_check":
		return domain.ErrInvalidQuantity
	case "movements_destination_check":
		return domain.ErrMissingDestination
	default:
		return domain.ErrInvalidInput
	}
}
