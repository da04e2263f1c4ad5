package entity

import "time"

// Roles de la aplicación.
const (
	RoleAdmin        = "admin"
	RoleProfesor     = "profesor"
	RoleCoordinacion = "coordinacion"
	RoleAlmacen      = "almacen"
	RoleCompras      = "compras"
)

// ValidRole verifica que el rol sea uno de los conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleProfesor, RoleCoordinacion, RoleAlmacen, RoleCompras:
		return true
	}
	return false
}

// User representa un usuario de la aplicación (profesor, coordinador, almacén, compras o admin).
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
