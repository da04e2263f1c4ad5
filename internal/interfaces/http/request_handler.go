package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-escolar-api/internal/application/dto"
	"github.com/jhoicas/almacen-escolar-api/internal/application/request"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
)

// RequestHandler maneja las solicitudes de material (protegido).
type RequestHandler struct {
	uc *request.WorkflowUseCase
}

// NewRequestHandler construye el handler.
func NewRequestHandler(uc *request.WorkflowUseCase) *RequestHandler {
	return &RequestHandler{uc: uc}
}

// Submit godoc
// @Summary      Crear solicitud de material
// @Description  Las solicitudes de profesores quedan a la espera del visto
// @Description  bueno de coordinación; las de coordinación pasan directo a la
// @Description  cola de almacén.
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequestRequest  true  "líneas {name, quantity} y observaciones"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/requests [post]
func (h *RequestHandler) Submit(c *fiber.Ctx) error {
	var in dto.CreateRequestRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.Submit(c.Context(), GetUserID(c), GetRole(c), dto.Lines(in.Lines), in.Observations)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToRequestResponse(req))
}

// List godoc
// @Summary      Listar solicitudes por cola
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        status               query  string  false  "pending, confirmed, rejected"
// @Param        coordination_status  query  string  false  "pending, approved, rejected"
// @Param        requester_id         query  string  false  "Filtrar por solicitante"
// @Success      200  {array}  dto.RequestResponse
// @Router       /api/requests [get]
func (h *RequestHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	requests, err := h.uc.List(repository.RequestFilter{
		RequesterID:        c.Query("requester_id"),
		Status:             c.Query("status"),
		CoordinationStatus: c.Query("coordination_status"),
		Limit:              page.Limit,
		Offset:             page.Offset,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(requests), "requests": requests})
}

// CoordinationDecide godoc
// @Summary      Decidir puerta de coordinación
// @Description  Aprueba o rechaza una solicitud pendiente de coordinación.
// @Description  Decisión de un solo disparo; no toca stock.
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.CoordinationDecisionRequest  true  "approve"
// @Success      200   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/coordination [post]
func (h *RequestHandler) CoordinationDecide(c *fiber.Ctx) error {
	var in dto.CoordinationDecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.CoordinationDecide(c.Context(), c.Params("id"), in.Approve, GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// Fulfill godoc
// @Summary      Confirmar solicitud (baja FIFO)
// @Description  Por cada línea baja stock en orden FIFO por vencimiento.
// @Description  Los faltantes se reportan por línea; la solicitud queda
// @Description  confirmada aunque haya cumplimiento parcial.
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.FulfillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/fulfill [post]
func (h *RequestHandler) Fulfill(c *fiber.Ctx) error {
	resp, err := h.uc.Fulfill(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(resp)
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Tags         requests
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.RequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) Reject(c *fiber.Ctx) error {
	req, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}

// EditLines godoc
// @Summary      Editar líneas de una solicitud pendiente
// @Description  Reemplaza por completo las líneas (corrección de nombres o
// @Description  cantidades antes de confirmar).
// @Tags         requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.EditRequestLinesRequest  true  "líneas nuevas"
// @Success      200   {object}  dto.RequestResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requests/{id}/lines [put]
func (h *RequestHandler) EditLines(c *fiber.Ctx) error {
	var in dto.EditRequestLinesRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	req, err := h.uc.EditLines(c.Context(), c.Params("id"), dto.Lines(in.Lines), in.Observations)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(dto.ToRequestResponse(req))
}
