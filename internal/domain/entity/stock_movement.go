package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// StockMovement representa un movimiento de stock (entrada o salida) contra un
// lote concreto. Es un registro de auditoría inmutable: las correcciones se
// hacen con un movimiento compensatorio, nunca borrando historial.
type StockMovement struct {
	ID           string
	ItemID       string
	Type         string // IN, OUT
	Quantity     int    // siempre > 0; el signo lo da Type
	Reason       string
	Observations string
	CreatedAt    time.Time
	CreatedBy    string // UserID, puede ser vacío
}
