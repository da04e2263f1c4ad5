package entity

import "time"

// StockItem representa un lote físico de un artículo en el almacén escolar.
// Varios StockItem pueden compartir el mismo nombre (distintas marcas, lotes o
// fechas de vencimiento); el agrupamiento lógico se hace por nombre normalizado.
type StockItem struct {
	ID              string
	Name            string
	Category        string
	Brand           string
	Quantity        int // nunca negativo; se muta solo vía movimientos
	MinStock        int
	ExpirationDate  *time.Time // nil = no vence
	UnitsPerPackage int        // >= 1
	Code            string
	UnitOfMeasure   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
