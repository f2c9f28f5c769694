// Package sheets adapta la API de Google Sheets al puerto projection.SheetClient.
// Cada pestaña de la hoja de cálculo es la línea de tiempo de un ítem.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jhoicas/inventario-obras/internal/application/projection"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/pkg/config"
)

var _ projection.SheetClient = (*Client)(nil)

// Rangos usados por el sincronizador: A1 es el encabezado; los datos van de A2
// en adelante (se lee un bloque generoso, el sincronizador solo usa la última fila).
const (
	headerRange = "A1:Z1"
	dataRange   = "A2:Z10000"
)

// Client cliente de Google Sheets para la proyección externa.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewClient construye el cliente con credenciales de cuenta de servicio.
func NewClient(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("crear servicio de Sheets: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

// ListTabs enumera los títulos de todas las pestañas.
func (c *Client) ListTabs(ctx context.Context) ([]string, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("leer metadatos de la hoja: %w", err)
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}
	return titles, nil
}

// CreateTab crea una pestaña nueva con el título dado.
func (c *Client) CreateTab(ctx context.Context, title string) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("crear pestaña %q: %w", title, err)
	}
	return nil
}

// DeleteTab elimina la pestaña; domain.ErrNotFound si no existe.
func (c *Client) DeleteTab(ctx context.Context, title string) error {
	sheetID, err := c.sheetID(ctx, title)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("eliminar pestaña %q: %w", title, err)
	}
	return nil
}

// Header lee la fila de encabezado (nil si la pestaña está vacía).
func (c *Client) Header(ctx context.Context, title string) ([]string, error) {
	vr, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeFor(title, headerRange)).
		MajorDimension("ROWS").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado de %q: %w", title, err)
	}
	if len(vr.Values) == 0 {
		return nil, nil
	}
	return toStrings(vr.Values[0]), nil
}

// Rows lee las filas de datos desde la fila 2, en orden de inserción.
func (c *Client) Rows(ctx context.Context, title string) ([][]string, error) {
	vr, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rangeFor(title, dataRange)).
		MajorDimension("ROWS").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("leer filas de %q: %w", title, err)
	}
	rows := make([][]string, 0, len(vr.Values))
	for _, row := range vr.Values {
		rows = append(rows, toStrings(row))
	}
	return rows, nil
}

// AppendRow añade una fila de datos al final de la pestaña.
func (c *Client) AppendRow(ctx context.Context, title string, row []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(row)}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rangeFor(title, "A2"), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("añadir fila a %q: %w", title, err)
	}
	return nil
}

// UpdateHeader reescribe la fila de encabezado.
func (c *Client) UpdateHeader(ctx context.Context, title string, header []string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{toInterfaces(header)}}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rangeFor(title, "A1"), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("actualizar encabezado de %q: %w", title, err)
	}
	return nil
}

// sheetID resuelve el ID numérico interno de una pestaña por título.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("leer metadatos de la hoja: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return sh.Properties.SheetId, nil
		}
	}
	return 0, domain.ErrNotFound
}

func rangeFor(title, rng string) string {
	return fmt.Sprintf("'%s'!%s", title, rng)
}

func toStrings(row []interface{}) []string {
	out := make([]string, 0, len(row))
	for _, v := range row {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, 0, len(row))
	for _, v := range row {
		out = append(out, v)
	}
	return out
}
