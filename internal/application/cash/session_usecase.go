// Package cash contiene los casos de uso de la sesión de caja y su libro de movimientos.
package cash

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/ledger"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
	"github.com/jhoicas/caixa-pdv/pkg/money"
)

// SessionUseCase abre, consulta y cierra sesiones de caja.
// Como máximo hay una sesión abierta en todo el sistema.
type SessionUseCase struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos
	log      *logger.Logger
}

// NewSessionUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewSessionUseCase(txRunner repository.TxRunner, repos repository.TxRepos, log *logger.Logger) *SessionUseCase {
	return &SessionUseCase{txRunner: txRunner, repos: repos, log: log}
}

// CloseResult resultado del cierre de una sesión.
type CloseResult struct {
	Session    *entity.CashSession
	Expected   money.Cents
	Difference money.Cents // conteo físico - esperado; positivo = sobrante
}

// Summary saldo corriente de una sesión (abierta o cerrada).
type Summary struct {
	Session        *entity.CashSession
	Totals         ledger.Totals
	RunningBalance money.Cents
	MovementsCount int
}

// Open abre una sesión nueva. Devuelve domain.ErrConflict si ya existe una abierta.
// La verificación y el insert comparten transacción; en postgres además lo garantiza
// un índice único parcial sobre is_open.
func (uc *SessionUseCase) Open(ctx context.Context, in dto.OpenCashSessionRequest) (*entity.CashSession, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	session := &entity.CashSession{
		OperatorID:     in.OperatorID,
		OpenedAt:       time.Now(),
		InitialBalance: in.InitialBalance,
		IsOpen:         true,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		current, err := tx.CashSessions.GetOpen(ctx)
		if err != nil {
			return err
		}
		if current != nil {
			return fmt.Errorf("sesión %s abierta por %s: %w", current.ID, current.OperatorID, domain.ErrConflict)
		}
		return tx.CashSessions.Create(ctx, session)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("session_id", session.ID).
		Str("operator_id", session.OperatorID).
		Int64("initial_balance", session.InitialBalance.Int64()).
		Msg("sesión de caja abierta")
	return session, nil
}

// GetOpen devuelve la sesión abierta o (nil, nil) si no hay ninguna.
func (uc *SessionUseCase) GetOpen(ctx context.Context) (*entity.CashSession, error) {
	return uc.repos.CashSessions.GetOpen(ctx)
}

// Get devuelve la sesión o domain.ErrNotFound.
func (uc *SessionUseCase) Get(ctx context.Context, id string) (*entity.CashSession, error) {
	session, err := uc.repos.CashSessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("sesión %s: %w", id, domain.ErrNotFound)
	}
	return session, nil
}

// Close cierra la sesión con el conteo físico del cajón.
// Esperado = saldo inicial + Σentradas - Σsalidas de todos los movimientos de la sesión.
// Bloquea la fila de la sesión para que no entren ventas ni movimientos durante el cálculo.
func (uc *SessionUseCase) Close(ctx context.Context, sessionID string, in dto.CloseCashSessionRequest) (*CloseResult, error) {
	if sessionID == "" {
		return nil, domain.NewValidationError("sessionId", "requerido")
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var result CloseResult
	err := uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		session, err := tx.CashSessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return fmt.Errorf("sesión %s: %w", sessionID, domain.ErrNotFound)
		}
		if !session.IsOpen {
			return fmt.Errorf("sesión %s: %w", sessionID, domain.ErrAlreadyClosed)
		}
		movements, err := tx.CashMovements.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		expected := ledger.ExpectedBalance(session.InitialBalance, derefMovements(movements))
		physical := *in.PhysicalCount
		difference := physical - expected
		closedAt := time.Now()

		session.IsOpen = false
		session.ClosedAt = &closedAt
		session.PhysicalCountAtClose = &physical
		session.ExpectedBalanceAtClose = &expected
		session.DifferenceAtClose = &difference
		if err := tx.CashSessions.Close(ctx, session); err != nil {
			return err
		}
		result = CloseResult{Session: session, Expected: expected, Difference: difference}
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrAlreadyClosed) && !errors.Is(err, domain.ErrNotFound) {
			uc.log.Error().Err(err).Str("session_id", sessionID).Msg("cierre de sesión de caja")
		}
		return nil, err
	}
	uc.log.Info().
		Str("session_id", sessionID).
		Int64("expected", result.Expected.Int64()).
		Int64("physical_count", in.PhysicalCount.Int64()).
		Int64("difference", result.Difference.Int64()).
		Msg("sesión de caja cerrada")
	return &result, nil
}

// Summary calcula el saldo corriente de la sesión a partir de su libro de movimientos.
func (uc *SessionUseCase) Summary(ctx context.Context, sessionID string) (*Summary, error) {
	session, err := uc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	movements, err := uc.repos.CashMovements.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	list := derefMovements(movements)
	totals := ledger.SumMovements(list)
	return &Summary{
		Session:        session,
		Totals:         totals,
		RunningBalance: session.InitialBalance + totals.In - totals.Out,
		MovementsCount: len(list),
	}, nil
}

func derefMovements(in []*entity.CashMovement) []entity.CashMovement {
	out := make([]entity.CashMovement, 0, len(in))
	for _, m := range in {
		out = append(out, *m)
	}
	return out
}
