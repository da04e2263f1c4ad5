package stock

import (
	"sort"
	"time"

	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
)

// Estados de un grupo de stock frente a su mínimo.
const (
	AlertStatusOK       = "ok"
	AlertStatusLow      = "low"
	AlertStatusCritical = "critical"
)

// Alert es la vista agregada de todos los lotes que comparten nombre normalizado.
// Derivada, nunca persistida; se recalcula en cada lectura.
type Alert struct {
	NormalizedName string
	DisplayName    string // nombre del primer lote del grupo
	Category       string
	Quantity       int // suma del grupo
	MinStock       int // máximo del grupo: rige el mínimo más estricto
	Status         string
}

// ComputeAlerts agrupa los lotes por nombre normalizado y calcula el estado de
// cada grupo: critical si quantity <= 0.5*minStock, low si <= minStock, ok en
// el resto. El nombre y la categoría visibles se toman del primer lote del
// grupo en el orden recibido.
func ComputeAlerts(items []*entity.StockItem) []Alert {
	byKey := make(map[string]*Alert)
	var order []string

	for _, item := range items {
		key := NormalizeName(item.Name)
		group, ok := byKey[key]
		if !ok {
			group = &Alert{
				NormalizedName: key,
				DisplayName:    item.Name,
				Category:       item.Category,
			}
			byKey[key] = group
			order = append(order, key)
		}
		group.Quantity += item.Quantity
		if item.MinStock > group.MinStock {
			group.MinStock = item.MinStock
		}
	}

	alerts := make([]Alert, 0, len(order))
	for _, key := range order {
		group := byKey[key]
		group.Status = alertStatus(group.Quantity, group.MinStock)
		alerts = append(alerts, *group)
	}
	return alerts
}

// LowStock filtra los grupos en estado low o critical, los más críticos primero.
func LowStock(items []*entity.StockItem) []Alert {
	var low []Alert
	for _, a := range ComputeAlerts(items) {
		if a.Status != AlertStatusOK {
			low = append(low, a)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		if low[i].Status != low[j].Status {
			return low[i].Status == AlertStatusCritical
		}
		return low[i].Quantity-low[i].MinStock < low[j].Quantity-low[j].MinStock
	})
	return low
}

// ExpiringSoon devuelve los lotes con cantidad > 0 cuyo vencimiento cae dentro
// de [now, now+windowDays]. Lotes sin fecha de vencimiento nunca aparecen.
func ExpiringSoon(items []*entity.StockItem, now time.Time, windowDays int) []*entity.StockItem {
	limit := now.AddDate(0, 0, windowDays)
	var soon []*entity.StockItem
	for _, item := range items {
		if item.ExpirationDate == nil || item.Quantity <= 0 {
			continue
		}
		exp := *item.ExpirationDate
		if !exp.Before(now) && !exp.After(limit) {
			soon = append(soon, item)
		}
	}
	return soon
}

// alertStatus compara con 2*quantity para no salir de aritmética entera.
func alertStatus(quantity, minStock int) string {
	switch {
	case 2*quantity <= minStock:
		return AlertStatusCritical
	case quantity <= minStock:
		return AlertStatusLow
	default:
		return AlertStatusOK
	}
}
