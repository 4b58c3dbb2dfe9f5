package engine

import (
	"strings"

	"drive-thru/models"
)

// RemoveItem drops the line ref points at.
func (e *Engine) RemoveItem(order models.Order, ref models.ItemRef) Result {
	idx, ok := locate(order, ref)
	if !ok {
		return fail(order, itemNotFound(""))
	}
	return e.removeAt(order, idx)
}

// RemoveByName drops the first line whose name matches name, falling back
// to resolving name against the whole catalogue, out-of-stock products
// included, and matching by product id.
func (e *Engine) RemoveByName(order models.Order, name string, catalogue []models.Product) Result {
	search := Normalize(name)
	if search != "" {
		for i, it := range order.Items {
			n := Normalize(it.Name)
			if strings.Contains(n, search) || strings.Contains(search, n) {
				return e.removeAt(order, i)
			}
		}
	}

	if p, ok := ResolveAny(name, catalogue); ok {
		for i, it := range order.Items {
			if it.ProductID == p.ID {
				return e.removeAt(order, i)
			}
		}
	}
	return fail(order, itemNotFound(name))
}

func (e *Engine) removeAt(order models.Order, idx int) Result {
	removed := order.Items[idx]

	next := order.Clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	next.UpdatedAt = e.Now()
	RecalculateTotals(&next)

	return succeed(next, []string{removed.Name + " retiré de la commande"})
}
