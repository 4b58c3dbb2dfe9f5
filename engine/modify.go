package engine

import (
	"fmt"

	"drive-thru/models"
)

// locate returns the index of the line ref points at.
func locate(order models.Order, ref models.ItemRef) (int, bool) {
	if ref.Index != nil {
		i := *ref.Index
		return i, i >= 0 && i < len(order.Items)
	}
	if ref.ID == "" {
		return -1, false
	}
	for i, it := range order.Items {
		if it.ID == ref.ID {
			return i, true
		}
	}
	return -1, false
}

// ModifyItem applies one change to an existing line and recomputes totals.
func (e *Engine) ModifyItem(order models.Order, mod models.Modification, catalogue []models.Product, rules []models.MenuRule) Result {
	idx, ok := locate(order, mod.Item)
	if !ok {
		return fail(order, itemNotFound(""))
	}

	item := order.Items[idx]
	var verr *ValidationError

	switch mod.Type {
	case models.ModChangeQuantity:
		if mod.Quantity < MinQuantity || mod.Quantity > MaxQuantityPerItem {
			return fail(order, invalidQuantity(mod.Quantity))
		}
		item.Qty = mod.Quantity

	case models.ModChangeSize:
		verr = changeSize(&item, models.Size(mod.Value), catalogue)

	case models.ModChangeSide:
		verr = e.changeComponent(&item, models.ComponentSide, mod, catalogue, rules)

	case models.ModChangeDrink:
		verr = e.changeComponent(&item, models.ComponentDrink, mod, catalogue, rules)

	case models.ModAddSauce:
		var sauce models.OrderItemModifier
		sauce, verr = e.sauceModifier(mod.Value, item.Modifiers, catalogue)
		if verr == nil {
			item.Modifiers = append(append([]models.OrderItemModifier(nil), item.Modifiers...), sauce)
			item.UnitPrice += sauce.ExtraPrice
		}

	case models.ModRemoveIngredient:
		e.customize(&item, models.CustomizationRemoveIngredient, mod.Value)

	case models.ModAddIngredient:
		e.customize(&item, models.CustomizationAddIngredient, mod.Value)

	default:
		return fail(order, ValidationError{
			Code:            CodeUnknownModification,
			Message:         fmt.Sprintf("unknown modification type: %s", mod.Type),
			CustomerMessage: "Type de modification non reconnu.",
			Recoverable:     false,
		})
	}
	if verr != nil {
		return fail(order, *verr)
	}

	item.LinePrice = item.UnitPrice * int64(item.Qty)

	next := order.Clone()
	next.Items[idx] = item
	next.UpdatedAt = e.Now()
	RecalculateTotals(&next)

	if next.Total > MaxOrderTotal {
		return fail(order, totalExceeded(next.Total))
	}
	return succeed(next, nil)
}

func changeSize(item *models.OrderItem, size models.Size, catalogue []models.Product) *ValidationError {
	product, ok := findProduct(catalogue, item.ProductID)
	if !ok || !product.HasSizes() {
		return &ValidationError{
			Code:            CodeSizeNotAvailable,
			Message:         "size options not available for " + item.ProductID,
			CustomerMessage: "Ce produit n'est pas disponible en différentes tailles.",
			Recoverable:     false,
		}
	}
	opt, ok := product.SizeOption(size)
	if !ok {
		return &ValidationError{
			Code:            CodeInvalidSize,
			Message:         fmt.Sprintf("invalid size: %s", size),
			CustomerMessage: fmt.Sprintf("Taille \"%s\" non disponible.", size),
			Recoverable:     true,
			SuggestedAction: ActionAskClarification,
		}
	}

	var old int64
	if item.Size != "" {
		if prev, ok := product.SizeOption(item.Size); ok {
			old = prev.PriceModifier
		}
	}
	item.Size = size
	item.UnitPrice += opt.PriceModifier - old
	return nil
}

// changeComponent swaps the side or drink of a menu line, checked against
// the menu's original rule.
func (e *Engine) changeComponent(item *models.OrderItem, t models.ComponentType, mod models.Modification, catalogue []models.Product, rules []models.MenuRule) *ValidationError {
	if item.Category != models.CategoryMenu {
		return &ValidationError{
			Code:            CodeNotAMenu,
			Message:         "item is not a menu: " + item.Name,
			CustomerMessage: "Cet article n'est pas un menu.",
			Recoverable:     false,
		}
	}

	pos := -1
	if mod.ModifierIndex != nil {
		if i := *mod.ModifierIndex; i >= 0 && i < len(item.Modifiers) && item.Modifiers[i].Type == t {
			pos = i
		}
	} else {
		for i, m := range item.Modifiers {
			if m.Type == t {
				pos = i
				break
			}
		}
	}
	if pos < 0 {
		return &ValidationError{
			Code:            CodeModifierNotFound,
			Message:         fmt.Sprintf("no %s modifier on %s", t, item.Name),
			CustomerMessage: fmt.Sprintf("Pas de %s à modifier.", t.Label()),
			Recoverable:     false,
		}
	}

	replacement, ok := ResolveInCategory(mod.Value, catalogue, t.Category())
	if !ok {
		return &ValidationError{
			Code:            CodeProductNotFound,
			Message:         fmt.Sprintf("%s not found: %s", t, mod.Value),
			CustomerMessage: fmt.Sprintf("Je ne trouve pas \"%s\".", mod.Value),
			Recoverable:     true,
			SuggestedAction: ActionAskClarification,
		}
	}

	var extra int64
	if rule, ok := findRule(rules, item.ProductID); ok {
		if comp, ok := rule.Component(t); ok && !comp.Allows(replacement.ID) {
			up, ok := comp.Upgrade(replacement.ID)
			if !ok {
				return &ValidationError{
					Code:            CodeProductNotAllowed,
					Message:         fmt.Sprintf("%s not allowed in %s", replacement.Name, item.Name),
					CustomerMessage: fmt.Sprintf("%s n'est pas disponible dans ce menu.", replacement.Name),
					Recoverable:     true,
					SuggestedAction: ActionProposeAlternative,
					Details:         map[string]any{"allowed": allowedNames(comp, catalogue)},
				}
			}
			extra = up.ExtraPrice
		}
	}

	old := item.Modifiers[pos]
	mods := append([]models.OrderItemModifier(nil), item.Modifiers...)
	mods[pos] = models.OrderItemModifier{
		ID:         e.NewID(),
		Type:       t,
		ProductID:  replacement.ID,
		Name:       replacement.Name,
		ExtraPrice: extra,
	}
	item.Modifiers = mods
	item.UnitPrice += extra - old.ExtraPrice
	return nil
}

// customize records an ingredient change. Repeating the same change is a
// no-op and the opposite change replaces it.
func (e *Engine) customize(item *models.OrderItem, t models.CustomizationType, ingredient string) {
	key := Normalize(ingredient)
	if key == "" {
		return
	}
	out := make([]models.OrderCustomization, 0, len(item.Customizations)+1)
	for _, c := range item.Customizations {
		if Normalize(c.Ingredient) != key {
			out = append(out, c)
			continue
		}
		if c.Type == t {
			return
		}
		item.UnitPrice -= c.ExtraPrice
	}
	item.Customizations = append(out, models.OrderCustomization{
		ID:         e.NewID(),
		Type:       t,
		Ingredient: ingredient,
	})
}
