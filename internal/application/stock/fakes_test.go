package stock_test

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/almacen-escolar-api/internal/application/stock"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria — sustituyen a los repos de postgres en los tests de
// casos de uso. Sin concurrencia: los tests son secuenciales.
// ──────────────────────────────────────────────────────────────────────────────

type memItemRepo struct {
	items map[string]*entity.StockItem
}

var _ repository.StockItemRepository = (*memItemRepo)(nil)

func newMemItemRepo(items ...*entity.StockItem) *memItemRepo {
	r := &memItemRepo{items: make(map[string]*entity.StockItem)}
	for _, it := range items {
		cp := *it
		r.items[it.ID] = &cp
	}
	return r
}

func (r *memItemRepo) Create(item *entity.StockItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) GetByID(id string) (*entity.StockItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.StockItem, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) List(filter repository.StockItemFilter) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, it := range r.items {
		if filter.Name != "" && it.Name != filter.Name {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListAvailableByName replica el orden FIFO del repo real: vencimiento
// ascendente con nulos al final, desempate por id.
func (r *memItemRepo) ListAvailableByName(name string) ([]*entity.StockItem, error) {
	var out []*entity.StockItem
	for _, it := range r.items {
		if it.Name != name || it.Quantity <= 0 {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.ExpirationDate == nil && b.ExpirationDate == nil:
			return a.ID < b.ID
		case a.ExpirationDate == nil:
			return false
		case b.ExpirationDate == nil:
			return true
		case !a.ExpirationDate.Equal(*b.ExpirationDate):
			return a.ExpirationDate.Before(*b.ExpirationDate)
		default:
			return a.ID < b.ID
		}
	})
	return out, nil
}

func (r *memItemRepo) Update(item *entity.StockItem) error {
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *memItemRepo) UpdateQuantity(id string, quantity int) error {
	it, ok := r.items[id]
	if !ok {
		return nil
	}
	it.Quantity = quantity
	it.UpdatedAt = time.Now()
	return nil
}

func (r *memItemRepo) Delete(id string) error {
	delete(r.items, id)
	return nil
}

// quantityOf cantidad vigente de un lote, para aserciones.
func (r *memItemRepo) quantityOf(id string) int {
	if it, ok := r.items[id]; ok {
		return it.Quantity
	}
	return -1
}

type memMovementRepo struct {
	movements []*entity.StockMovement
}

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func newMemMovementRepo() *memMovementRepo {
	return &memMovementRepo{}
}

func (r *memMovementRepo) Create(movement *entity.StockMovement) error {
	cp := *movement
	r.movements = append(r.movements, &cp)
	return nil
}

func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(filter repository.StockMovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

// memTxRunner ejecuta la función con los repos en memoria, sin transacción
// real. La semántica de rollback que importa en los tests (no registrar
// movimiento cuando la validación falla) se respeta porque el caso de uso
// valida antes de escribir.
type memTxRunner struct {
	itemRepo *memItemRepo
	movRepo  *memMovementRepo
}

var _ stock.TxRunner = (*memTxRunner)(nil)

func (tx *memTxRunner) Run(ctx context.Context, fn func(repository.StockItemRepository, repository.StockMovementRepository) error) error {
	return fn(tx.itemRepo, tx.movRepo)
}
