package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Cada uno corresponde a un tipo de fallo que el caller puede distinguir con errors.Is.
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrNoOpenSession     = errors.New("no hay sesión de caja abierta")
	ErrAlreadyClosed     = errors.New("la sesión de caja ya está cerrada")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrStorage           = errors.New("error de almacenamiento")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrReportUnavailable = errors.New("reporte no disponible")
)

// ValidationError detalla los campos inválidos de una petición.
// Unwrap devuelve ErrInvalidInput para que errors.Is funcione sin conocer el tipo.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye el error con un único campo.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidInput.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s (%s)", ErrInvalidInput.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// StorageError envuelve un fallo del motor de persistencia (constraint, I/O, serialización).
// Se compara como ErrStorage y conserva la causa original.
func StorageError(op string, cause error) error {
	return errors.Join(ErrStorage, fmt.Errorf("%s: %w", op, cause))
}
