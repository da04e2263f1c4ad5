package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/almacen-escolar-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// NormalizeName — clave de agrupamiento lógico
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeName_CaseYEspacios(t *testing.T) {
	assert.Equal(t, "guantes", stock.NormalizeName("  Guantes "))
	assert.Equal(t, "guantes", stock.NormalizeName("GUANTES"))
	assert.Equal(t, "guantes de latex", stock.NormalizeName("Guantes   de  Latex"))
}

func TestNormalizeName_MismaClaveParaVariantes(t *testing.T) {
	variantes := []string{" Gloves ", "gloves", "GLOVES", "  gloves  "}
	for _, v := range variantes {
		assert.Equal(t, "gloves", stock.NormalizeName(v),
			"la variante %q debe agrupar con el resto", v)
	}
}

func TestNormalizeName_Unicode(t *testing.T) {
	// El case folding debe cubrir caracteres acentuados.
	assert.Equal(t, stock.NormalizeName("Algodón"), stock.NormalizeName("ALGODÓN"))
}

func TestNormalizeName_Vacio(t *testing.T) {
	assert.Equal(t, "", stock.NormalizeName(""))
	assert.Equal(t, "", stock.NormalizeName("   "))
}
