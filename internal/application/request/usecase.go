package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-escolar-api/internal/application/allocation"
	"github.com/jhoicas/almacen-escolar-api/internal/application/dto"
	"github.com/jhoicas/almacen-escolar-api/internal/domain"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
	"github.com/jhoicas/almacen-escolar-api/internal/domain/repository"
	"github.com/jhoicas/almacen-escolar-api/pkg/metrics"
)

// Nombre mostrado cuando el solicitante no se puede resolver. La resolución de
// nombres es solo para auditoría: su fallo degrada al placeholder, nunca
// aborta la operación.
const unknownRequester = "Profesor no identificado"

// WorkflowUseCase máquina de estados de solicitudes: alta, puerta de
// coordinación, confirmación con baja FIFO y rechazo.
type WorkflowUseCase struct {
	reqRepo   repository.RequestRepository
	userRepo  repository.UserRepository
	allocator *allocation.Allocator
}

// NewWorkflowUseCase construye el caso de uso.
func NewWorkflowUseCase(
	reqRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	allocator *allocation.Allocator,
) *WorkflowUseCase {
	return &WorkflowUseCase{reqRepo: reqRepo, userRepo: userRepo, allocator: allocator}
}

// Submit crea una solicitud en estado pending. Si el rol del solicitante
// requiere visto bueno de coordinación la puerta nace pending; si no, nace
// approved (pase directo a la cola de almacén).
func (uc *WorkflowUseCase) Submit(ctx context.Context, requesterID, requesterRole string, lines []entity.RequestLine, observations string) (*entity.Request, error) {
	if requesterID == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	coordination := entity.CoordinationApproved
	if entity.RequiresCoordination(requesterRole) {
		coordination = entity.CoordinationPending
	}

	req := &entity.Request{
		ID:                 uuid.New().String(),
		RequesterID:        requesterID,
		RequesterRole:      requesterRole,
		Lines:              lines,
		Observations:       observations,
		Status:             entity.RequestStatusPending,
		CoordinationStatus: coordination,
		CreatedAt:          time.Now(),
	}
	if err := uc.reqRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// CoordinationDecide aprueba o rechaza la puerta de coordinación. Solo válido
// mientras la puerta está pending (decisión de un solo disparo); no toca stock.
// La decisión queda fechada en DecidedAt. Un rechazo de coordinación es
// terminal: la solicitud pasa a rejected con su auditoría de rechazo.
func (uc *WorkflowUseCase) CoordinationDecide(ctx context.Context, requestID string, approve bool, actorID string) (*entity.Request, error) {
	req, err := uc.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.CoordinationStatus != entity.CoordinationPending || req.Status != entity.RequestStatusPending {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	req.ApprovedBy = actorID
	req.DecidedAt = &now
	if approve {
		req.CoordinationStatus = entity.CoordinationApproved
	} else {
		req.CoordinationStatus = entity.CoordinationRejected
		req.Status = entity.RequestStatusRejected
		req.RejectedAt = &now
		req.RejectedBy = actorID
		metrics.RequestsTotal.WithLabelValues(entity.RequestStatusRejected).Inc()
	}
	if err := uc.reqRepo.Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Fulfill confirma una solicitud: por cada línea ejecuta la asignación FIFO y
// registra el resultado. El procesamiento es de mejor esfuerzo y NO es atómico
// entre líneas: un fallo en la línea N no revierte las bajas de las líneas
// anteriores; se reporta por línea y se continúa. Al terminar (con o sin
// faltantes) la solicitud pasa a confirmed. Reinvocar sobre una solicitud ya
// confirmada devuelve ErrInvalidState sin generar movimientos adicionales.
func (uc *WorkflowUseCase) Fulfill(ctx context.Context, requestID, actorID string) (*dto.FulfillResponse, error) {
	req, err := uc.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	// La puerta de coordinación manda: sin aprobación no hay confirmación,
	// sea cual sea el estado principal.
	if req.CoordinationStatus != entity.CoordinationApproved {
		return nil, domain.ErrInvalidState
	}
	if req.Status != entity.RequestStatusPending {
		return nil, domain.ErrInvalidState
	}

	requesterName := uc.resolveActorName(req.RequesterID)
	reason := fmt.Sprintf("Solicitud %s - %s", req.RequesterRole, requesterName)

	outcomes := make([]dto.LineOutcome, 0, len(req.Lines))
	partial := false
	for _, line := range req.Lines {
		outcome := dto.LineOutcome{Name: line.Name, Requested: line.Quantity}
		result, err := uc.allocator.Allocate(ctx, line.Name, line.Quantity, reason, req.Observations, actorID)
		outcome.Fulfilled = result.Fulfilled
		outcome.Shortfall = result.Shortfall()
		if err != nil {
			// Fallo de la línea: se reporta y se sigue con la siguiente.
			outcome.Error = lineError(err)
			outcomes = append(outcomes, outcome)
			partial = true
			continue
		}
		if result.Partial() {
			partial = true
		}
		outcomes = append(outcomes, outcome)
	}

	now := time.Now()
	req.Status = entity.RequestStatusConfirmed
	req.ConfirmedAt = &now
	req.ConfirmedBy = actorID
	if err := uc.reqRepo.Update(req); err != nil {
		return nil, err
	}
	metrics.RequestsTotal.WithLabelValues(entity.RequestStatusConfirmed).Inc()

	resp := dto.ToRequestResponse(req)
	resp.RequesterName = requesterName
	return &dto.FulfillResponse{
		Request: resp,
		Lines:   outcomes,
		Partial: partial,
	}, nil
}

// Reject rechaza una solicitud pendiente (en cualquiera de las dos puertas).
// Sin efecto sobre el stock.
func (uc *WorkflowUseCase) Reject(ctx context.Context, requestID, actorID string) (*entity.Request, error) {
	req, err := uc.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RequestStatusPending {
		return nil, domain.ErrInvalidState
	}

	now := time.Now()
	req.Status = entity.RequestStatusRejected
	req.RejectedAt = &now
	req.RejectedBy = actorID
	if err := uc.reqRepo.Update(req); err != nil {
		return nil, err
	}
	metrics.RequestsTotal.WithLabelValues(entity.RequestStatusRejected).Inc()
	return req, nil
}

// EditLines reemplaza por completo las líneas de una solicitud pendiente (se
// usa para corregir nombres o cantidades antes de confirmar).
func (uc *WorkflowUseCase) EditLines(ctx context.Context, requestID string, lines []entity.RequestLine, observations string) (*entity.Request, error) {
	if len(lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

	req, err := uc.reqRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if req.Status != entity.RequestStatusPending {
		return nil, domain.ErrInvalidState
	}

	req.Lines = lines
	req.Observations = observations
	if err := uc.reqRepo.Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

// List lista solicitudes por cola de trabajo (coordinación, almacén, propias),
// con el nombre visible del solicitante resuelto para las vistas.
func (uc *WorkflowUseCase) List(filter repository.RequestFilter) ([]*dto.RequestResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	requests, err := uc.reqRepo.List(filter)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	out := make([]*dto.RequestResponse, 0, len(requests))
	for _, req := range requests {
		name, ok := names[req.RequesterID]
		if !ok {
			name = uc.resolveActorName(req.RequesterID)
			names[req.RequesterID] = name
		}
		resp := dto.ToRequestResponse(req)
		resp.RequesterName = name
		out = append(out, resp)
	}
	return out, nil
}

// resolveActorName resuelve el nombre visible de un usuario para auditoría.
func (uc *WorkflowUseCase) resolveActorName(userID string) string {
	if userID == "" {
		return unknownRequester
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil || user == nil {
		return unknownRequester
	}
	if user.Name != "" {
		return user.Name
	}
	if user.Email != "" {
		return user.Email
	}
	return unknownRequester
}

func validateLines(lines []entity.RequestLine) error {
	for _, line := range lines {
		if line.Name == "" || line.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func lineError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "línea inválida"
	default:
		return err.Error()
	}
}
