package stock

import (
	"context"

	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la mutación de cantidad y el
// registro del movimiento se apliquen juntos o no se apliquen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}
