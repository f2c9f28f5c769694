package projection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-obras/internal/domain/projection"
)

func TestHeader_ReservaYSitios(t *testing.T) {
	h := projection.Header("Store Room", []string{"Obra Norte", "Obra Sur"})
	assert.Equal(t, []string{"Date", "Time", "Store Room", "Obra Norte", "Obra Sur"}, h,
		"el encabezado debe ser [Date, Time, reserva, ...sitios]")
}

func TestHeader_SinSitios(t *testing.T) {
	h := projection.Header("Store Room", nil)
	assert.Equal(t, []string{"Date", "Time", "Store Room"}, h)
}

func TestCarryForward_ArrastraUltimosValores(t *testing.T) {
	last := []string{"2026-08-01", "10:15:00", "9", "3", "7"}
	assert.Equal(t, []int64{3, 7}, projection.CarryForward(last, 2),
		"las columnas de sitios deben conservar su último valor")
}

func TestCarryForward_ColumnasNuevasValenCero(t *testing.T) {
	// La última fila es anterior a la creación de dos sitios nuevos.
	last := []string{"2026-08-01", "10:15:00", "9", "3"}
	assert.Equal(t, []int64{3, 0, 0}, projection.CarryForward(last, 3),
		"una columna que la fila aún no tenía arranca en cero")
}

func TestCarryForward_SinFilaPrevia(t *testing.T) {
	assert.Equal(t, []int64{0, 0}, projection.CarryForward(nil, 2))
}

func TestCarryForward_CeldaNoNumericaValeCero(t *testing.T) {
	last := []string{"2026-08-01", "10:15:00", "9", "n/a", "7"}
	assert.Equal(t, []int64{0, 7}, projection.CarryForward(last, 2))
}

func TestCentralValue(t *testing.T) {
	assert.Equal(t, int64(9), projection.CentralValue([]string{"d", "t", "9", "3"}))
	assert.Equal(t, int64(0), projection.CentralValue(nil))
}

func TestApplyTransfer_EntreSitios(t *testing.T) {
	siteNames := []string{"Obra Norte", "Obra Sur"}
	central, sites := projection.ApplyTransfer(9, []int64{3, 7}, siteNames, "Store Room", "Obra Norte", "Obra Sur", 2)

	assert.Equal(t, int64(9), central, "una transferencia entre obras no toca la reserva")
	assert.Equal(t, []int64{1, 9}, sites)
}

func TestApplyTransfer_DesdeReserva(t *testing.T) {
	siteNames := []string{"Obra Norte"}
	central, sites := projection.ApplyTransfer(9, []int64{3}, siteNames, "Store Room", "Store Room", "Obra Norte", 4)

	assert.Equal(t, int64(5), central, "enviar desde la reserva resta en la columna central")
	assert.Equal(t, []int64{7}, sites)
}

func TestApplyTransfer_HaciaReserva(t *testing.T) {
	siteNames := []string{"Obra Norte"}
	central, sites := projection.ApplyTransfer(9, []int64{3}, siteNames, "Store Room", "Obra Norte", "Store Room", 3)

	assert.Equal(t, int64(12), central, "devolver a la reserva suma en la columna central")
	assert.Equal(t, []int64{0}, sites)
}

func TestApplyTransfer_PisoEnCero(t *testing.T) {
	// La proyección va desfasada: la fila dice 1 pero el almacén autoritativo
	// permitió mover 5. La columna no puede quedar negativa.
	siteNames := []string{"Obra Norte", "Obra Sur"}
	central, sites := projection.ApplyTransfer(0, []int64{1, 2}, siteNames, "Store Room", "Obra Norte", "Obra Sur", 5)

	assert.Equal(t, int64(0), central)
	assert.Equal(t, []int64{0, 7}, sites, "el origen se fija en cero, nunca en negativo")
}

func TestFormatRow(t *testing.T) {
	at := time.Date(2026, 8, 31, 14, 5, 9, 0, time.UTC)
	row := projection.FormatRow(at, 9, []int64{3, 7})
	assert.Equal(t, []string{"2026-08-31", "14:05:09", "9", "3", "7"}, row)
}

func TestPadRow_RellenaYAnadeCero(t *testing.T) {
	last := []string{"2026-08-01", "10:15:00", "9", "3"}
	assert.Equal(t, []string{"2026-08-01", "10:15:00", "9", "3", "0"}, projection.PadRow(last, 5),
		"la fila rellenada conserva las celdas existentes y cierra con un cero")
}

func TestPadRow_FilaMasCortaQueElEncabezado(t *testing.T) {
	last := []string{"2026-08-01", "10:15:00", "9"}
	assert.Equal(t, []string{"2026-08-01", "10:15:00", "9", "", "0"}, projection.PadRow(last, 5))
}
