package reports

import (
	"context"
	"time"
)

// ReportCache caché de agregados de solo lectura. Un fallo del caché nunca rompe un reporte.
type ReportCache interface {
	// Get decodifica el valor en dest. ok=false si la clave no existe.
	Get(ctx context.Context, key string, dest any) (ok bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// NoopCache no guarda nada.
type NoopCache struct{}

// Get implementa ReportCache.
func (NoopCache) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set implementa ReportCache.
func (NoopCache) Set(context.Context, string, any, time.Duration) error { return nil }

// SessionReportRenderer genera el documento imprimible del cierre de caja.
type SessionReportRenderer interface {
	RenderSessionReport(ctx context.Context, report *SessionReport) ([]byte, error)
}
