package entity

import "time"

// Estados del ciclo de vida de una solicitud.
const (
	RequestStatusPending   = "pending"
	RequestStatusConfirmed = "confirmed"
	RequestStatusRejected  = "rejected"
)

// Estados de la puerta de coordinación.
const (
	CoordinationPending  = "pending"
	CoordinationApproved = "approved"
	CoordinationRejected = "rejected"
)

// RequestLine una línea (artículo, cantidad) dentro de una solicitud.
type RequestLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Request representa una solicitud de material de un profesor o coordinador.
// Las solicitudes de profesores pasan primero por la puerta de coordinación;
// una vez aprobadas, el personal de almacén las confirma (baja de stock FIFO)
// o las rechaza. Estados terminales: confirmed, rejected.
type Request struct {
	ID                 string
	RequesterID        string
	RequesterRole      string // profesor, coordinacion
	Lines              []RequestLine
	Observations       string
	Status             string // pending, confirmed, rejected
	CoordinationStatus string // pending, approved, rejected
	ApprovedBy         string     // coordinador que decidió la puerta
	DecidedAt          *time.Time // momento de la decisión de coordinación
	CreatedAt          time.Time
	ConfirmedAt        *time.Time // solo entregas confirmadas por almacén
	ConfirmedBy        string
	RejectedAt         *time.Time // rechazo terminal, en cualquiera de las dos puertas
	RejectedBy         string
}

// RequiresCoordination indica si la puerta de coordinación aplica al rol.
func RequiresCoordination(role string) bool {
	return role == RoleProfesor
}
