package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/caixa-pdv/internal/domain"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// mapError traduce un error del driver al error de dominio correspondiente.
// unique -> ErrConflict, FK -> ErrNotFound, check -> ErrInvalidInput, resto -> ErrStorage.
// La causa original sigue accesible con errors.As.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return errors.Join(domain.ErrConflict, fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, err))
		case codeForeignKeyViolation:
			return errors.Join(domain.ErrNotFound, fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, err))
		case codeCheckViolation:
			return errors.Join(domain.ErrInvalidInput, fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, err))
		}
	}
	return domain.StorageError(op, err)
}

// isRetryable indica un aborto por serialización o deadlock: la transacción se puede repetir.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected
	}
	return false
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
