package projection

import "context"

// Disabled sincronizador nulo: se usa cuando la proyección externa no está
// configurada (SHEETS_SPREADSHEET_ID vacío). Todas las operaciones son no-ops.
type Disabled struct{}

func (Disabled) EnsureTimeline(context.Context, string, []string) error { return nil }
func (Disabled) AppendSnapshotRow(context.Context, string, int64, []string) error {
	return nil
}
func (Disabled) RecordTransfer(context.Context, string, []string, string, string, int64) error {
	return nil
}
func (Disabled) AddSiteColumn(context.Context, string) error  { return nil }
func (Disabled) RemoveTimeline(context.Context, string) error { return nil }
