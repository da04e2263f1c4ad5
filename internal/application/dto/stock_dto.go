package dto

import (
	"time"

	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
)

// CreateItemRequest body para POST /api/items.
type CreateItemRequest struct {
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Brand           string  `json:"brand,omitempty"`
	Quantity        int     `json:"quantity"`
	MinStock        int     `json:"min_stock"`
	ExpirationDate  *string `json:"expiration_date,omitempty"` // YYYY-MM-DD
	UnitsPerPackage int     `json:"units_per_package,omitempty"`
	Code            string  `json:"code,omitempty"`
	UnitOfMeasure   string  `json:"unit_of_measure,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Punteros = campo no enviado.
type UpdateItemRequest struct {
	Name            *string `json:"name,omitempty"`
	Category        *string `json:"category,omitempty"`
	Brand           *string `json:"brand,omitempty"`
	MinStock        *int    `json:"min_stock,omitempty"`
	ExpirationDate  *string `json:"expiration_date,omitempty"` // YYYY-MM-DD, "" limpia la fecha
	UnitsPerPackage *int    `json:"units_per_package,omitempty"`
	Code            *string `json:"code,omitempty"`
	UnitOfMeasure   *string `json:"unit_of_measure,omitempty"`
}

// ItemResponse representación HTTP de un lote de stock.
type ItemResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Brand           string  `json:"brand,omitempty"`
	Quantity        int     `json:"quantity"`
	MinStock        int     `json:"min_stock"`
	ExpirationDate  *string `json:"expiration_date,omitempty"`
	UnitsPerPackage int     `json:"units_per_package"`
	Code            string  `json:"code,omitempty"`
	UnitOfMeasure   string  `json:"unit_of_measure,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// ToItemResponse convierte la entidad a su representación HTTP.
func ToItemResponse(item *entity.StockItem) *ItemResponse {
	resp := &ItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Category:        item.Category,
		Brand:           item.Brand,
		Quantity:        item.Quantity,
		MinStock:        item.MinStock,
		UnitsPerPackage: item.UnitsPerPackage,
		Code:            item.Code,
		UnitOfMeasure:   item.UnitOfMeasure,
		CreatedAt:       item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       item.UpdatedAt.Format(time.RFC3339),
	}
	if item.ExpirationDate != nil {
		s := item.ExpirationDate.Format("2006-01-02")
		resp.ExpirationDate = &s
	}
	return resp
}

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	ItemID       string `json:"item_id"`
	Type         string `json:"type"` // IN, OUT
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason,omitempty"`
	Observations string `json:"observations,omitempty"`
}

// MovementResponse representación HTTP de un movimiento.
type MovementResponse struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	Type         string `json:"type"`
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason,omitempty"`
	Observations string `json:"observations,omitempty"`
	CreatedAt    string `json:"created_at"`
	CreatedBy    string `json:"created_by,omitempty"`
}

// ToMovementResponse convierte la entidad a su representación HTTP.
func ToMovementResponse(m *entity.StockMovement) *MovementResponse {
	return &MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		Type:         m.Type,
		Quantity:     m.Quantity,
		Reason:       m.Reason,
		Observations: m.Observations,
		CreatedAt:    m.CreatedAt.Format(time.RFC3339),
		CreatedBy:    m.CreatedBy,
	}
}
