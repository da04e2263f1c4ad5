package allocation

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jhoicas/almacen-escolar-api/internal/application/stock"
	"github.com/jhoicas/almacen-escolar-api/internal/domain"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
	"github.com/jhoicas/almacen-escolar-api/pkg/metrics"
)

// PlanEntry una baja planificada: cuántas unidades tomar de qué lote.
type PlanEntry struct {
	ItemID   string
	Quantity int
}

// Result resultado de una asignación. Fulfilled < Requested señala
// cumplimiento parcial: aviso estructurado para el caller (sugerencia de
// compra), nunca un error.
type Result struct {
	ItemName  string
	Requested int
	Fulfilled int
}

// Shortfall unidades que no pudieron cubrirse.
func (r Result) Shortfall() int { return r.Requested - r.Fulfilled }

// Partial indica si la asignación quedó incompleta.
func (r Result) Partial() bool { return r.Fulfilled < r.Requested }

// BuildPlan arma el plan FIFO sobre los lotes dados: primero los de
// vencimiento más próximo, los lotes sin vencimiento al final ("no vence
// nunca"), desempate por id para que el plan sea determinista. De cada lote se
// toma min(restante, cantidad del lote) hasta cubrir lo solicitado o agotar la
// lista. Función pura: no muta los lotes recibidos.
func BuildPlan(items []*entity.StockItem, requested int) []PlanEntry {
	sorted := make([]*entity.StockItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
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

	var plan []PlanEntry
	remaining := requested
	for _, item := range sorted {
		if remaining <= 0 {
			break
		}
		if item.Quantity <= 0 {
			continue
		}
		take := remaining
		if item.Quantity < take {
			take = item.Quantity
		}
		plan = append(plan, PlanEntry{ItemID: item.ID, Quantity: take})
		remaining -= take
	}
	return plan
}

// Allocator asigna una cantidad solicitada de un artículo sobre los lotes
// disponibles en orden FIFO y ejecuta las bajas a través del libro de stock.
type Allocator struct {
	itemRepo repository.StockItemRepository
	ledger   *stock.LedgerUseCase
}

// NewAllocator construye el asignador.
func NewAllocator(itemRepo repository.StockItemRepository, ledger *stock.LedgerUseCase) *Allocator {
	return &Allocator{itemRepo: itemRepo, ledger: ledger}
}

// Allocate baja del stock hasta requested unidades del artículo con ese
// nombre. Cada baja es un movimiento atómico individual; el plan completo NO
// es una transacción única, así que un fallo a mitad deja las bajas previas
// aplicadas (política de mejor esfuerzo). Si dos asignaciones concurrentes
// compiten por los mismos lotes, la validación por fila del libro es el único
// resguardo: un lote que otro caller vació se salta y se sigue con el
// siguiente candidato. requested <= 0 es error del caller y se rechaza antes
// de consultar nada.
func (a *Allocator) Allocate(ctx context.Context, itemName string, requested int, reason, observations, actorID string) (Result, error) {
	result := Result{ItemName: itemName, Requested: requested}
	if itemName == "" || requested <= 0 {
		return result, domain.ErrInvalidInput
	}

	available, err := a.itemRepo.ListAvailableByName(itemName)
	if err != nil {
		return result, fmt.Errorf("buscar lotes disponibles: %w", err)
	}

	for _, entry := range BuildPlan(available, requested) {
		_, err := a.ledger.RegisterMovement(ctx, stock.MovementInput{
			ItemID:       entry.ItemID,
			Type:         entity.MovementTypeOUT,
			Quantity:     entry.Quantity,
			Reason:       reason,
			Observations: observations,
			ActorID:      actorID,
		})
		if err != nil {
			// Otro caller pudo vaciar el lote entre la lectura y la baja:
			// este lote ya no tiene nada que dar, se sigue con el siguiente.
			if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return result, err
		}
		result.Fulfilled += entry.Quantity
	}

	if result.Partial() {
		metrics.AllocationShortfallTotal.Add(float64(result.Shortfall()))
	}
	return result, nil
}
