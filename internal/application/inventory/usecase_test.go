package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-obras/internal/application/dto"
	"github.com/jhoicas/inventario-obras/internal/domain"
	"github.com/jhoicas/inventario-obras/internal/domain/repository"
)

func TestAdd_CreaRegistroConSnapshot(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	ctx := context.Background()

	item, err := f.itemUC.Add(ctx, dto.CreateItemRequest{
		Name: "Martillo", Category: "Tools", Quantity: 7, SiteID: "site-a",
	}, "user-1")
	require.NoError(t, err)
	f.recorder.Wait()

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "Obra Norte", item.SiteName, "el nombre del sitio se desnormaliza al crear")
	assert.Equal(t, int64(7), item.Quantity)

	entries, _ := f.ledger.List(ctx)
	require.Len(t, entries, 1, "el alta queda en el libro de auditoría")
	require.Len(t, f.proj.snapshots, 1, "el alta escribe una fila de snapshot")
	assert.Equal(t, int64(7), f.proj.snapshots[0].central)
}

func TestAdd_Validaciones(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateItemRequest
		user string
		want error
	}{
		{"sin nombre", dto.CreateItemRequest{Category: "Tools", SiteID: "site-a"}, "u", domain.ErrInvalidInput},
		{"cantidad negativa", dto.CreateItemRequest{Name: "Martillo", Category: "Tools", Quantity: -1, SiteID: "site-a"}, "u", domain.ErrInvalidInput},
		{"categoría desconocida", dto.CreateItemRequest{Name: "Martillo", Category: "Otra", SiteID: "site-a"}, "u", domain.ErrInvalidInput},
		{"sin usuario", dto.CreateItemRequest{Name: "Martillo", Category: "Tools", SiteID: "site-a"}, "", domain.ErrInvalidInput},
		{"sitio inexistente", dto.CreateItemRequest{Name: "Martillo", Category: "Tools", SiteID: "site-x"}, "u", domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.itemUC.Add(ctx, tc.in, tc.user)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAdjustQuantity_AplicaDelta(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	f.addItem("item-1", "Martillo", "site-a", "Obra Norte", 5)
	ctx := context.Background()

	item, err := f.itemUC.AdjustQuantity(ctx, "item-1", 3, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(8), item.Quantity)

	item, err = f.itemUC.AdjustQuantity(ctx, "item-1", -8, "u")
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity, "restar hasta cero es válido")
}

func TestAdjustQuantity_NuncaNegativo(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	f.addItem("item-1", "Martillo", "site-a", "Obra Norte", 2)

	_, err := f.itemUC.AdjustQuantity(context.Background(), "item-1", -3, "u")
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	it, _ := f.items.GetByID(context.Background(), "item-1")
	assert.Equal(t, int64(2), it.Quantity, "el rechazo no deja efecto parcial")
}

func TestAdjustQuantity_DeltaCeroEsInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.itemUC.AdjustQuantity(context.Background(), "item-1", 0, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_CantidadNegativaRechazada(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	f.addItem("item-1", "Martillo", "site-a", "Obra Norte", 5)

	bad := int64(-1)
	_, err := f.itemUC.Update(context.Background(), "item-1", dto.UpdateItemRequest{Quantity: &bad}, "u")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestUpdate_SoloSnapshotSiCambiaCantidad(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	f.addItem("item-1", "Martillo", "site-a", "Obra Norte", 5)
	ctx := context.Background()

	newName := "Martillo de uña"
	_, err := f.itemUC.Update(ctx, "item-1", dto.UpdateItemRequest{Name: &newName}, "u")
	require.NoError(t, err)
	f.recorder.Wait()
	assert.Empty(t, f.proj.snapshots, "editar sin tocar la cantidad no escribe fila")

	newQty := int64(9)
	_, err = f.itemUC.Update(ctx, "item-1", dto.UpdateItemRequest{Quantity: &newQty}, "u")
	require.NoError(t, err)
	f.recorder.Wait()
	require.Len(t, f.proj.snapshots, 1)
	assert.Equal(t, int64(9), f.proj.snapshots[0].central)
}

func TestListPage_FiltraPorLinaje(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	f.addSite("site-b", "Obra Sur")
	f.addSite("site-c", "Obra Este")
	f.addItem("item-a", "Martillo", "site-a", "Obra Norte", 10)
	f.addItem("item-b", "Martillo", "site-b", "Obra Sur", 10)
	ctx := context.Background()

	_, err := f.transfer.Send(ctx, TransferInput{ItemID: "item-a", FromSiteID: "site-a", ToSiteID: "site-c", Quantity: 2, UserID: "u"})
	require.NoError(t, err)
	_, err = f.transfer.Send(ctx, TransferInput{ItemID: "item-b", FromSiteID: "site-b", ToSiteID: "site-c", Quantity: 3, UserID: "u"})
	require.NoError(t, err)

	items, total, err := f.itemUC.ListPage(ctx, repository.ItemPageFilter{SiteID: "site-c", OriginSiteID: "site-a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].Quantity)
}

func TestStats_Agregados(t *testing.T) {
	f := newFixture(t)
	f.addSite("site-a", "Obra Norte")
	f.addItem("item-1", "Martillo", "site-a", "Obra Norte", 5)
	f.addItem("item-2", "Taladro", "site-a", "Obra Norte", 2)
	f.addItem("item-3", "Martillo", "site-a", "Obra Norte", 1)

	stats, err := f.itemUC.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.TotalQuantity)
	assert.Equal(t, int64(2), stats.UniqueItemCount, "los nombres repetidos cuentan una vez")
}
