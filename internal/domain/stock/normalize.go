package stock

import (
	"strings"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// NormalizeName deriva la clave de agrupamiento lógico de un artículo:
// case folding Unicode, sin espacios al inicio/fin y espacios internos
// colapsados a uno. "  Guantes   M " y "guantes m" producen la misma clave.
func NormalizeName(name string) string {
	folded := foldCaser.String(name)
	return strings.Join(strings.Fields(folded), " ")
}
