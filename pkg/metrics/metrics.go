package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores Prometheus de la aplicación. Se exponen en GET /metrics.
var (
	// MovementsTotal movimientos registrados en el libro, por tipo (IN/OUT).
	MovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "movements_total",
		Help:      "Movimientos de stock registrados, por tipo.",
	}, []string{"type"})

	// AllocationShortfallTotal unidades solicitadas que no pudieron cubrirse
	// por falta de stock (fulfillments parciales).
	AllocationShortfallTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "allocation_shortfall_units_total",
		Help:      "Unidades no cubiertas en asignaciones FIFO por falta de stock.",
	})

	// RequestsTotal solicitudes que alcanzaron un estado terminal.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "requests_total",
		Help:      "Solicitudes por estado terminal (confirmed/rejected).",
	}, []string{"status"})
)
