package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-escolar-api/internal/domain"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
	"github.com/jhoicas/almacen-escolar-api/pkg/metrics"
)

// LedgerUseCase registra movimientos de stock de forma transaccional: bloqueo
// de fila (SELECT FOR UPDATE), verificación de cantidad y apéndice al libro de
// movimientos en la misma transacción. El libro es auditoría; la cantidad
// vigente vive en el lote y se valida aquí, no se recalcula del historial.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movRepo: movRepo}
}

// MovementInput entrada para registrar un movimiento.
type MovementInput struct {
	ItemID       string
	Type         string // IN, OUT
	Quantity     int    // > 0
	Reason       string
	Observations string
	ActorID      string
}

// RegisterMovement aplica un movimiento de forma atómica: bloquea el lote,
// verifica que una salida no deje cantidad negativa (ErrInsufficientStock y el
// lote queda intacto, sin entrada en el libro), actualiza la cantidad y
// persiste el movimiento. Devuelve el movimiento registrado.
func (uc *LedgerUseCase) RegisterMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.ItemID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.Type != entity.MovementTypeIN && input.Type != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	mov := &entity.StockMovement{
		ID:           uuid.New().String(),
		ItemID:       input.ItemID,
		Type:         input.Type,
		Quantity:     input.Quantity,
		Reason:       input.Reason,
		Observations: input.Observations,
		CreatedAt:    now,
		CreatedBy:    input.ActorID,
	}

	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error {
		item, err := itemRepo.GetForUpdate(input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		newQty := item.Quantity + input.Quantity
		if input.Type == entity.MovementTypeOUT {
			newQty = item.Quantity - input.Quantity
		}
		if newQty < 0 {
			return domain.ErrInsufficientStock
		}

		if err := itemRepo.UpdateQuantity(item.ID, newQty); err != nil {
			return err
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}

	metrics.MovementsTotal.WithLabelValues(input.Type).Inc()
	return mov, nil
}

// Reverse deshace una salida con un movimiento compensatorio de entrada por el
// mismo lote y la misma cantidad, anotado como restauración. El movimiento
// original no se toca: el historial solo crece.
func (uc *LedgerUseCase) Reverse(ctx context.Context, movementID, actorID string) (*entity.StockMovement, error) {
	original, err := uc.movRepo.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, domain.ErrNotFound
	}
	if original.Type != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidState
	}

	return uc.RegisterMovement(ctx, MovementInput{
		ItemID:       original.ItemID,
		Type:         entity.MovementTypeIN,
		Quantity:     original.Quantity,
		Reason:       fmt.Sprintf("Restauración de salida %s", original.ID),
		Observations: original.Observations,
		ActorID:      actorID,
	})
}

// ListMovements historial de movimientos con filtros (lote, tipo, fechas).
func (uc *LedgerUseCase) ListMovements(filter repository.StockMovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return uc.movRepo.List(filter)
}
