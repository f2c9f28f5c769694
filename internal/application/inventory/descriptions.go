package inventory

import "fmt"

// Descripciones legibles para el libro de auditoría. Se derivan una sola vez por
// evento y se reutilizan para la entrada del libro y para el log.

func describeAdd(itemName, siteName, userName string, quantity int64) string {
	return fmt.Sprintf("%d unidades de %q dadas de alta en %q por %q", quantity, itemName, siteName, userName)
}

func describeAdjust(itemName, siteName, userName string, delta int64) string {
	if delta >= 0 {
		return fmt.Sprintf("%d unidades añadidas a %q en %q por %q", delta, itemName, siteName, userName)
	}
	return fmt.Sprintf("%d unidades retiradas de %q en %q por %q", -delta, itemName, siteName, userName)
}

func describeEdit(itemName, siteName, userName string, quantity int64) string {
	return fmt.Sprintf("%q en %q editado por %q (cantidad: %d)", itemName, siteName, userName, quantity)
}

func describeTransfer(itemName, fromSite, toSite, userName string, quantity int64) string {
	return fmt.Sprintf("%d unidades de %q transferidas de %q a %q por %q", quantity, itemName, fromSite, toSite, userName)
}

func describeDelete(itemName, siteName, userName string) string {
	return fmt.Sprintf("%q eliminado de %q por %q", itemName, siteName, userName)
}

func describeSiteCreated(siteName, userName string) string {
	return fmt.Sprintf("sitio %q creado por %q", siteName, userName)
}

func describeSiteUpdated(siteName, userName string) string {
	return fmt.Sprintf("sitio %q actualizado por %q", siteName, userName)
}

func describeSiteDeleted(siteName, userName string) string {
	return fmt.Sprintf("sitio %q eliminado por %q", siteName, userName)
}
