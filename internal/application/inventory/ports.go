package inventory

import "context"

// ProjectionSync define el puerto hacia el sincronizador de la proyección externa.
// Lo implementan projection.Synchronizer (Google Sheets) y projection.Disabled.
// Todas las llamadas son de mejor esfuerzo: el Recorder captura y registra sus
// errores, nunca los propaga a la operación principal.
type ProjectionSync interface {
	EnsureTimeline(ctx context.Context, itemName string, siteNames []string) error
	AppendSnapshotRow(ctx context.Context, itemName string, centralQuantity int64, siteNames []string) error
	RecordTransfer(ctx context.Context, itemName string, siteNames []string, fromSite, toSite string, quantity int64) error
	AddSiteColumn(ctx context.Context, siteName string) error
	RemoveTimeline(ctx context.Context, itemName string) error
}
