package repository

import (
	"time"

	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
)

// StockMovementFilter filtros opcionales para el historial de movimientos.
type StockMovementFilter struct {
	ItemID string
	Type   string // IN, OUT
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// StockMovementRepository define el puerto de persistencia para el libro de
// movimientos. Solo inserta y consulta: el historial nunca se modifica.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	List(filter StockMovementFilter) ([]*entity.StockMovement, error)
}
