package repository

import "github.com/jhoicas/almacen-escolar-api/internal/domain/entity"

// RequestFilter filtros para listados de solicitudes por cola de trabajo.
type RequestFilter struct {
	RequesterID        string
	Status             string
	CoordinationStatus string
	Limit              int
	Offset             int
}

// RequestRepository define el puerto de persistencia para solicitudes.
type RequestRepository interface {
	Create(request *entity.Request) error
	GetByID(id string) (*entity.Request, error)
	List(filter RequestFilter) ([]*entity.Request, error)
	Update(request *entity.Request) error
}
