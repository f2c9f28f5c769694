// Package projection contiene la aritmética pura de filas de la proyección
// externa (servicio de dominio, sin IO). Una fila es
// [fecha, hora, reserva, sitio1, sitio2, ...]: índice 0 fecha, 1 hora,
// 2 cantidad de la reserva central y desde el 3 una columna numérica por sitio.
package projection

import (
	"strconv"
	"time"
)

// Índices fijos de columnas en una fila de la proyección.
const (
	colDate    = 0
	colTime    = 1
	colCentral = 2
	// las columnas de sitios empiezan en el índice 3
	SiteColumnOffset = 3
)

// Header construye la fila de encabezado para una línea de tiempo nueva.
func Header(reserveName string, siteNames []string) []string {
	h := make([]string, 0, SiteColumnOffset+len(siteNames))
	h = append(h, "Date", "Time", reserveName)
	return append(h, siteNames...)
}

// CentralValue extrae la cantidad de la reserva central de la última fila (0 si no hay).
func CentralValue(lastRow []string) int64 {
	return cellValue(lastRow, colCentral)
}

// CarryForward extrae los valores de las columnas de sitios de la última fila,
// rellenando con cero las columnas que la fila aún no tenía. Esta es la política
// de arrastre: una columna no modificada por el evento conserva su último valor,
// nunca se pone en blanco ni en cero de forma silenciosa.
func CarryForward(lastRow []string, siteCount int) []int64 {
	values := make([]int64, siteCount)
	for i := range values {
		values[i] = cellValue(lastRow, SiteColumnOffset+i)
	}
	return values
}

// ApplyTransfer aplica los deltas de una transferencia sobre los valores arrastrados:
// resta en el sitio origen y suma en el destino, con piso en cero para que una
// proyección desfasada nunca muestre negativos. Cuando un extremo es la reserva
// central ajusta también la columna central.
func ApplyTransfer(central int64, sites []int64, siteNames []string, reserveName, fromSite, toSite string, quantity int64) (int64, []int64) {
	updated := make([]int64, len(sites))
	for i, v := range sites {
		if i < len(siteNames) {
			if siteNames[i] == fromSite {
				v -= quantity
			}
			if siteNames[i] == toSite {
				v += quantity
			}
		}
		if v < 0 {
			v = 0
		}
		updated[i] = v
	}
	if fromSite == reserveName {
		central -= quantity
	}
	if toSite == reserveName {
		central += quantity
	}
	if central < 0 {
		central = 0
	}
	return central, updated
}

// FormatRow serializa una fila de datos con la marca de tiempo dada.
func FormatRow(at time.Time, central int64, sites []int64) []string {
	row := make([]string, 0, SiteColumnOffset+len(sites))
	row = append(row, at.Format("2006-01-02"), at.Format("15:04:05"), strconv.FormatInt(central, 10))
	for _, v := range sites {
		row = append(row, strconv.FormatInt(v, 10))
	}
	return row
}

// PadRow devuelve una copia de la última fila rellenada hasta width-1 columnas y
// con un cero final para la columna recién añadida (evolución de esquema al crear
// un sitio). Las celdas numéricas existentes se conservan tal cual.
func PadRow(lastRow []string, width int) []string {
	row := make([]string, 0, width)
	row = append(row, lastRow...)
	for len(row) < width-1 {
		row = append(row, "")
	}
	return append(row, "0")
}

// cellValue interpreta una celda como entero; celdas ausentes o no numéricas valen 0.
func cellValue(row []string, idx int) int64 {
	if idx >= len(row) {
		return 0
	}
	n, err := strconv.ParseInt(row[idx], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
