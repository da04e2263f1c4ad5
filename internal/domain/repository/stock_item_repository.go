package repository

import "github.com/jhoicas/almacen-escolar-api/internal/domain/entity"

// StockItemFilter filtros opcionales para listados de lotes.
type StockItemFilter struct {
	Name     string // coincidencia exacta de nombre
	Category string
	Limit    int
	Offset   int
}

// StockItemRepository define el puerto de persistencia para lotes de stock.
type StockItemRepository interface {
	Create(item *entity.StockItem) error
	GetByID(id string) (*entity.StockItem, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE); usar dentro
	// de una transacción para mutaciones de cantidad.
	GetForUpdate(id string) (*entity.StockItem, error)
	List(filter StockItemFilter) ([]*entity.StockItem, error)
	// ListAvailableByName lotes con el nombre dado y cantidad > 0, ordenados por
	// fecha de vencimiento ascendente con nulos al final (orden FIFO), y por id
	// como desempate determinista.
	ListAvailableByName(name string) ([]*entity.StockItem, error)
	Update(item *entity.StockItem) error
	// UpdateQuantity fija la cantidad y updated_at de un lote. Pensado para
	// usarse dentro de la transacción que registra el movimiento.
	UpdateQuantity(id string, quantity int) error
	Delete(id string) error
}
