package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-escolar-api/internal/application/dto"
	"github.com/jhoicas/almacen-escolar-api/internal/application/stock"
)

// AlertHandler expone las alertas de stock bajo y vencimientos (protegido).
type AlertHandler struct {
	uc          *stock.AlertUseCase
	defaultDays int
}

// NewAlertHandler construye el handler. defaultDays es la ventana de
// vencimiento cuando el cliente no envía ?days.
func NewAlertHandler(uc *stock.AlertUseCase, defaultDays int) *AlertHandler {
	return &AlertHandler{uc: uc, defaultDays: defaultDays}
}

// LowStock godoc
// @Summary      Alertas de stock bajo
// @Description  Agrupa items por nombre normalizado y reporta los grupos en
// @Description  estado crítico o bajo, críticos primero.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts/low-stock [get]
func (h *AlertHandler) LowStock(c *fiber.Ctx) error {
	alerts, err := h.uc.LowStock()
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": dto.ToAlertResponses(alerts)})
}

// Summary godoc
// @Summary      Estado de todos los grupos de stock
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) Summary(c *fiber.Ctx) error {
	alerts, err := h.uc.ComputeAlerts()
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(alerts), "alerts": dto.ToAlertResponses(alerts)})
}

// ExpiringSoon godoc
// @Summary      Items próximos a vencer
// @Description  Items con cantidad disponible cuyo vencimiento cae dentro de
// @Description  la ventana indicada en días.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana en días (por defecto la configurada)"
// @Success      200  {array}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/alerts/expiring [get]
func (h *AlertHandler) ExpiringSoon(c *fiber.Ctx) error {
	days := h.defaultDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "days debe ser un entero positivo"})
		}
		days = parsed
	}
	items, err := h.uc.ExpiringSoon(days)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]*dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ToItemResponse(it))
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}
