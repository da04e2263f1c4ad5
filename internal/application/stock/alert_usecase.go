package stock

import (
	"time"

	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
	domainstock "github.com/jhoicas/almacen-escolar-api/internal/domain/stock"
)

// AlertUseCase vistas derivadas para el panel de compras: stock bajo y
// vencimientos próximos. Sin efectos; se recalcula del estado vigente en cada
// lectura (no hay caché de cantidades entre llamadas).
type AlertUseCase struct {
	repo repository.StockItemRepository
}

// NewAlertUseCase construye el caso de uso.
func NewAlertUseCase(repo repository.StockItemRepository) *AlertUseCase {
	return &AlertUseCase{repo: repo}
}

// ComputeAlerts estado de todos los grupos (agrupados por nombre normalizado).
func (uc *AlertUseCase) ComputeAlerts() ([]domainstock.Alert, error) {
	items, err := uc.repo.List(repository.StockItemFilter{})
	if err != nil {
		return nil, err
	}
	return domainstock.ComputeAlerts(items), nil
}

// LowStock solo los grupos en estado low o critical.
func (uc *AlertUseCase) LowStock() ([]domainstock.Alert, error) {
	items, err := uc.repo.List(repository.StockItemFilter{})
	if err != nil {
		return nil, err
	}
	return domainstock.LowStock(items), nil
}

// ExpiringSoon lotes con stock cuyo vencimiento cae dentro de la ventana.
func (uc *AlertUseCase) ExpiringSoon(windowDays int) ([]*entity.StockItem, error) {
	items, err := uc.repo.List(repository.StockItemFilter{})
	if err != nil {
		return nil, err
	}
	return domainstock.ExpiringSoon(items, time.Now(), windowDays), nil
}
