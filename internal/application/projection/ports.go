package projection

import "context"

// SheetClient define el puerto hacia el backend tipo hoja de cálculo.
// Cada pestaña (tab) es la línea de tiempo de un ítem, identificada por su nombre.
// La implementación real vive en infrastructure/sheets; los tests usan un doble en memoria.
type SheetClient interface {
	// ListTabs enumera los títulos de todas las pestañas.
	ListTabs(ctx context.Context) ([]string, error)
	CreateTab(ctx context.Context, title string) error
	// DeleteTab elimina la pestaña; domain.ErrNotFound si no existe.
	DeleteTab(ctx context.Context, title string) error
	// Header lee la fila de encabezado (nil si la pestaña está vacía).
	Header(ctx context.Context, title string) ([]string, error)
	// Rows lee las filas de datos (desde la fila 2, en orden de inserción).
	Rows(ctx context.Context, title string) ([][]string, error)
	AppendRow(ctx context.Context, title string, row []string) error
	UpdateHeader(ctx context.Context, title string, header []string) error
}
