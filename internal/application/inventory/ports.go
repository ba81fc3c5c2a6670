package inventory

import (
	"context"
	"errors"
	"time"
)

// ErrLockNotObtained otro proceso tiene el candado.
var ErrLockNotObtained = errors.New("candado ocupado")

// Locker candado distribuido para tareas que no deben correr en paralelo entre instancias
// (reparación de stock). Lock devuelve la función que libera el candado.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// NoopLocker siempre obtiene el candado (una sola instancia, tests).
type NoopLocker struct{}

// Lock implementa Locker.
func (NoopLocker) Lock(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
