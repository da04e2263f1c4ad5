package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-escolar-api/internal/application/dto"
	"github.com/jhoicas/almacen-escolar-api/internal/domain"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para lotes de stock. La cantidad solo se crea
// aquí; después se muta únicamente vía LedgerUseCase (movimientos).
type ItemUseCase struct {
	repo repository.StockItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.StockItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create valida y persiste un lote nuevo. Nombre y categoría son obligatorios;
// cantidades negativas se rechazan; units_per_package mínimo 1.
func (uc *ItemUseCase) Create(in dto.CreateItemRequest) (*entity.StockItem, error) {
	if in.Name == "" || in.Category == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.MinStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitsPerPackage < 0 {
		return nil, domain.ErrInvalidInput
	}
	unitsPerPackage := in.UnitsPerPackage
	if unitsPerPackage == 0 {
		unitsPerPackage = 1
	}

	expiration, err := parseExpiration(in.ExpirationDate)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	item := &entity.StockItem{
		ID:              uuid.New().String(),
		Name:            in.Name,
		Category:        in.Category,
		Brand:           in.Brand,
		Quantity:        in.Quantity,
		MinStock:        in.MinStock,
		ExpirationDate:  expiration,
		UnitsPerPackage: unitsPerPackage,
		Code:            in.Code,
		UnitOfMeasure:   in.UnitOfMeasure,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID obtiene un lote por ID. Devuelve ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(id string) (*entity.StockItem, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// List lista lotes con filtros opcionales.
func (uc *ItemUseCase) List(filter repository.StockItemFilter) ([]*entity.StockItem, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return uc.repo.List(filter)
}

// Update aplica una actualización parcial. La cantidad no se toca aquí: se
// maneja exclusivamente vía movimientos.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*entity.StockItem, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Category != nil {
		if *in.Category == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Category = *in.Category
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.MinStock = *in.MinStock
	}
	if in.UnitsPerPackage != nil {
		if *in.UnitsPerPackage < 1 {
			return nil, domain.ErrInvalidInput
		}
		item.UnitsPerPackage = *in.UnitsPerPackage
	}
	if in.Code != nil {
		item.Code = *in.Code
	}
	if in.UnitOfMeasure != nil {
		item.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.ExpirationDate != nil {
		if *in.ExpirationDate == "" {
			item.ExpirationDate = nil
		} else {
			expiration, err := parseExpiration(in.ExpirationDate)
			if err != nil {
				return nil, domain.ErrInvalidInput
			}
			item.ExpirationDate = expiration
		}
	}

	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete elimina un lote de forma definitiva. Los movimientos históricos que lo
// referencian se conservan como historial huérfano.
func (uc *ItemUseCase) Delete(id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func parseExpiration(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
