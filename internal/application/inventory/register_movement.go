package inventory

import (
	"context"

	"github.com/jhoicas/caixa-pdv/internal/application/dto"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
// userID es el operador autenticado; el request puede traer CreatedBy explícito.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterStockMovementRequest) (*MovementResult, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.CreatedBy != "" {
		userID = in.CreatedBy
	}
	input := MovementInputDTO{
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Negative:  in.Negative,
		Reason:    in.Reason,
	}
	return uc.RegisterMovement(ctx, input)
}
