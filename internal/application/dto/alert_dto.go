package dto

import "github.com/jhoicas/almacen-escolar-api/internal/domain/stock"

// AlertResponse vista agregada de stock bajo para el panel de compras.
type AlertResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	MinStock int    `json:"min_stock"`
	Status   string `json:"status"` // ok, low, critical
}

// ToAlertResponses convierte las vistas de dominio a su representación HTTP.
func ToAlertResponses(alerts []stock.Alert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertResponse{
			Name:     a.DisplayName,
			Category: a.Category,
			Quantity: a.Quantity,
			MinStock: a.MinStock,
			Status:   a.Status,
		})
	}
	return out
}
