package entity

// MutationKind tipo de mutación sobre el inventario.
type MutationKind string

// Tipos de mutación emitidos hacia el libro de auditoría y la proyección.
const (
	MutationAdd      MutationKind = "add"
	MutationAdjust   MutationKind = "adjust"
	MutationTransfer MutationKind = "transfer"
	MutationDelete   MutationKind = "delete"
)

// Mutation evento de mutación ya confirmado en el almacén autoritativo.
// Lo consumen el libro de auditoría y el sincronizador de proyección como
// trabajo posterior de mejor esfuerzo; nunca afecta la respuesta al llamador.
type Mutation struct {
	Kind          MutationKind
	ItemID        string
	ItemName      string
	QuantityDelta int64
	NewQuantity   int64 // cantidad resultante del registro mutado (para la fila de snapshot)
	FromSiteID    string
	ToSiteID      string
	UserID        string
}
