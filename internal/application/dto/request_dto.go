package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/almacen-escolar-api/internal/domain/entity"
)

// RequestLineInput una línea de solicitud tal como llega del cliente.
// Clientes históricos enviaron variantes de nombre de campo ("item" por "name",
// "quantidade"/"cantidad" por "quantity"); se normalizan aquí, en el borde,
// para que al núcleo solo llegue la forma canónica {name, quantity}.
type RequestLineInput struct {
	Name     string
	Quantity int
}

// UnmarshalJSON acepta las variantes históricas de nombres de campo.
func (l *RequestLineInput) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name       string `json:"name"`
		Item       string `json:"item"`
		Quantity   *int   `json:"quantity"`
		Quantidade *int   `json:"quantidade"`
		Cantidad   *int   `json:"cantidad"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Name = raw.Name
	if l.Name == "" {
		l.Name = raw.Item
	}
	switch {
	case raw.Quantity != nil:
		l.Quantity = *raw.Quantity
	case raw.Quantidade != nil:
		l.Quantity = *raw.Quantidade
	case raw.Cantidad != nil:
		l.Quantity = *raw.Cantidad
	default:
		l.Quantity = 1
	}
	return nil
}

// Lines convierte las líneas de entrada a la forma canónica del dominio.
func Lines(in []RequestLineInput) []entity.RequestLine {
	lines := make([]entity.RequestLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, entity.RequestLine{Name: l.Name, Quantity: l.Quantity})
	}
	return lines
}

// CreateRequestRequest body para POST /api/requests.
type CreateRequestRequest struct {
	Lines        []RequestLineInput `json:"lines"`
	Observations string             `json:"observations,omitempty"`
}

// EditRequestLinesRequest body para PUT /api/requests/:id/lines.
// Reemplaza por completo las líneas de la solicitud.
type EditRequestLinesRequest struct {
	Lines        []RequestLineInput `json:"lines"`
	Observations string             `json:"observations,omitempty"`
}

// CoordinationDecisionRequest body para POST /api/requests/:id/coordination.
type CoordinationDecisionRequest struct {
	Approve bool `json:"approve"`
}

// RequestResponse representación HTTP de una solicitud.
type RequestResponse struct {
	ID                 string               `json:"id"`
	RequesterID        string               `json:"requester_id"`
	RequesterName      string               `json:"requester_name,omitempty"`
	RequesterRole      string               `json:"requester_role"`
	Lines              []entity.RequestLine `json:"lines"`
	Observations       string               `json:"observations,omitempty"`
	Status             string               `json:"status"`
	CoordinationStatus string               `json:"coordination_status"`
	ApprovedBy         string               `json:"approved_by,omitempty"`
	DecidedAt          *string              `json:"decided_at,omitempty"`
	CreatedAt          string               `json:"created_at"`
	ConfirmedAt        *string              `json:"confirmed_at,omitempty"`
	ConfirmedBy        string               `json:"confirmed_by,omitempty"`
	RejectedAt         *string              `json:"rejected_at,omitempty"`
	RejectedBy         string               `json:"rejected_by,omitempty"`
}

// ToRequestResponse convierte la entidad a su representación HTTP.
func ToRequestResponse(r *entity.Request) *RequestResponse {
	resp := &RequestResponse{
		ID:                 r.ID,
		RequesterID:        r.RequesterID,
		RequesterRole:      r.RequesterRole,
		Lines:              r.Lines,
		Observations:       r.Observations,
		Status:             r.Status,
		CoordinationStatus: r.CoordinationStatus,
		ApprovedBy:         r.ApprovedBy,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
		ConfirmedBy:        r.ConfirmedBy,
		RejectedBy:         r.RejectedBy,
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &s
	}
	if r.ConfirmedAt != nil {
		s := r.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &s
	}
	if r.RejectedAt != nil {
		s := r.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &s
	}
	return resp
}

// LineOutcome resultado por línea de un Fulfill: cuánto se pudo bajar del
// stock y, si aplica, el faltante o el error que impidió procesar la línea.
type LineOutcome struct {
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Fulfilled int    `json:"fulfilled"`
	Shortfall int    `json:"shortfall"`
	Error     string `json:"error,omitempty"`
}

// FulfillResponse resultado agregado de confirmar una solicitud.
type FulfillResponse struct {
	Request *RequestResponse `json:"request"`
	Lines   []LineOutcome    `json:"lines"`
	Partial bool             `json:"partial"` // alguna línea quedó con faltante
}
