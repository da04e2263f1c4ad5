package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-escolar-api/internal/application/dto"
	"github.com/jhoicas/almacen-escolar-api/internal/application/stock"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

// MovementHandler maneja el libro de movimientos (protegido).
type MovementHandler struct {
	uc *stock.LedgerUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *stock.LedgerUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar movimiento de stock
// @Description  Entrada o salida contra un lote. Una salida que dejaría
// @Description  cantidad negativa se rechaza sin tocar el lote ni el libro.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_id, type (IN/OUT), quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	mov, err := h.uc.RegisterMovement(c.Context(), stock.MovementInput{
		ItemID:       in.ItemID,
		Type:         in.Type,
		Quantity:     in.Quantity,
		Reason:       in.Reason,
		Observations: in.Observations,
		ActorID:      GetUserID(c),
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por lote"
// @Param        type     query  string  false  "IN u OUT"
// @Param        from     query  string  false  "Fecha desde (RFC3339)"
// @Param        to       query  string  false  "Fecha hasta (RFC3339)"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.StockMovementFilter{
		ItemID: c.Query("item_id"),
		Type:   c.Query("type"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from inválido"})
		}
		filter.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to inválido"})
		}
		filter.To = &t
	}

	movements, err := h.uc.ListMovements(filter)
	if err != nil {
		return mapDomainError(c, err)
	}
	out := make([]*dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Reverse godoc
// @Summary      Restaurar una salida
// @Description  Crea un movimiento de entrada compensatorio por el mismo lote
// @Description  y cantidad; el movimiento original no se modifica.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento de salida"
// @Success      201  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/reverse [post]
func (h *MovementHandler) Reverse(c *fiber.Ctx) error {
	mov, err := h.uc.Reverse(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}
