package cash

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
	"github.com/jhoicas/caixa-pdv/internal/domain"
	"github.com/jhoicas/caixa-pdv/internal/domain/entity"
	"github.com/jhoicas/caixa-pdv/internal/domain/ledger"
	"github.com/jhoicas/caixa-pdv/internal/domain/repository"
	"github.com/jhoicas/caixa-pdv/pkg/logger"
)

// MovementUseCase registra y lista los movimientos del libro de caja.
type MovementUseCase struct {
	txRunner repository.TxRunner
	repos    repository.TxRepos
	log      *logger.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner repository.TxRunner, repos repository.TxRepos, log *logger.Logger) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, repos: repos, log: log}
}

type manualMetadata struct {
	Category   string `json:"category,omitempty"`
	OperatorID string `json:"operatorId,omitempty"`
}

// AddSuprimento registra un aporte de efectivo al cajón.
func (uc *MovementUseCase) AddSuprimento(ctx context.Context, in dto.ManualCashMovementRequest) (*entity.CashMovement, error) {
	return uc.addManual(ctx, entity.CashMovementSuprimento, entity.DirectionIn, in)
}

// AddSangria registra un retiro de efectivo del cajón.
func (uc *MovementUseCase) AddSangria(ctx context.Context, in dto.ManualCashMovementRequest) (*entity.CashMovement, error) {
	return uc.addManual(ctx, entity.CashMovementSangria, entity.DirectionOut, in)
}

// addManual valida y registra un movimiento manual. Sin CashSessionID usa la sesión abierta.
// La verificación de sesión abierta y el insert comparten transacción.
func (uc *MovementUseCase) addManual(ctx context.Context, movementType, direction string, in dto.ManualCashMovementRequest) (*entity.CashMovement, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	meta, err := json.Marshal(manualMetadata{Category: strings.TrimSpace(in.Category), OperatorID: in.OperatorID})
	if err != nil {
		return nil, err
	}
	movement := &entity.CashMovement{
		Type:          movementType,
		Direction:     direction,
		Amount:        in.Amount,
		Description:   strings.TrimSpace(in.Description),
		ReferenceType: entity.ReferenceTypeManual,
		Metadata:      meta,
		Timestamp:     time.Now(),
	}
	err = uc.txRunner.Run(ctx, func(tx repository.TxRepos) error {
		session, err := openSession(ctx, tx, in.CashSessionID)
		if err != nil {
			return err
		}
		movement.CashSessionID = session.ID
		return tx.CashMovements.Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("session_id", movement.CashSessionID).
		Str("movement_id", movement.ID).
		Str("type", movementType).
		Int64("amount", movement.Amount.Int64()).
		Msg("movimiento de caja registrado")
	return movement, nil
}

// AddSaleInflow registra una entrada de caja de una venta dentro de la transacción del caller.
// La sesión ya fue validada por quien abre la transacción.
func (uc *MovementUseCase) AddSaleInflow(ctx context.Context, tx repository.TxRepos, sessionID, saleID string, inflow ledger.CashInflow, at time.Time) (*entity.CashMovement, error) {
	if inflow.Amount <= 0 {
		return nil, fmt.Errorf("entrada de venta %s: monto %s: %w", saleID, inflow.Amount, domain.ErrInvalidInput)
	}
	movement := &entity.CashMovement{
		CashSessionID: sessionID,
		Type:          entity.CashMovementSaleInflow,
		Direction:     entity.DirectionIn,
		Amount:        inflow.Amount,
		Description:   inflow.Description,
		ReferenceType: entity.ReferenceTypeSale,
		ReferenceID:   saleID,
		Metadata:      inflow.Metadata,
		Timestamp:     at,
	}
	if err := tx.CashMovements.Create(ctx, movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// ListMovements devuelve los movimientos de la sesión por timestamp ascendente.
func (uc *MovementUseCase) ListMovements(ctx context.Context, sessionID string) ([]*entity.CashMovement, error) {
	session, err := uc.repos.CashSessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("sesión %s: %w", sessionID, domain.ErrNotFound)
	}
	return uc.repos.CashMovements.ListBySession(ctx, sessionID)
}

// openSession resuelve la sesión destino de un movimiento: la indicada o la abierta actual.
func openSession(ctx context.Context, tx repository.TxRepos, sessionID string) (*entity.CashSession, error) {
	if sessionID == "" {
		session, err := tx.CashSessions.GetOpen(ctx)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, domain.ErrNoOpenSession
		}
		return session, nil
	}
	session, err := tx.CashSessions.GetForUpdate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("sesión %s: %w", sessionID, domain.ErrNotFound)
	}
	if !session.IsOpen {
		return nil, fmt.Errorf("sesión %s cerrada: %w", sessionID, domain.ErrNoOpenSession)
	}
	return session, nil
}
