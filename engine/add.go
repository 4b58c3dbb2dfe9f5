package engine

import (
	"fmt"

	"drive-thru/models"
)

// AddItem resolves parsed against the catalogue and appends a priced line.
// On any error the returned order is the input order.
func (e *Engine) AddItem(order models.Order, parsed models.ParsedOrderItem, catalogue []models.Product, rules []models.MenuRule) Result {
	// out-of-stock products resolve too and are refused below with alternatives
	product, ok := ResolveAny(parsed.ProductName, catalogue)
	if !ok {
		return fail(order, ValidationError{
			Code:            CodeProductNotFound,
			Message:         "product not found: " + parsed.ProductName,
			CustomerMessage: fmt.Sprintf("Désolé, je ne trouve pas \"%s\" dans notre menu.", parsed.ProductName),
			Recoverable:     false,
			SuggestedAction: ActionAskClarification,
		})
	}

	if !product.Available {
		return fail(order, unavailable(product, catalogue))
	}

	if parsed.Quantity < MinQuantity || parsed.Quantity > MaxQuantityPerItem {
		return fail(order, invalidQuantity(parsed.Quantity))
	}

	if len(order.Items) >= MaxItemsPerOrder {
		return fail(order, orderTooLarge())
	}

	unitPrice := product.BasePrice
	var size models.Size
	if parsed.Size != "" {
		if opt, ok := product.SizeOption(parsed.Size); ok {
			unitPrice += opt.PriceModifier
			size = parsed.Size
		}
	}

	var warnings []string
	modifiers := []models.OrderItemModifier{}
	sauces := parsed.Modifiers

	if product.Category == models.CategoryMenu {
		// a menu without a rule keeps its sauces as plain extras
		if rule, ok := findRule(rules, product.ID); ok {
			sel, verr := e.ApplyComponents(parsed.Modifiers, rule, catalogue)
			if verr != nil {
				return fail(order, *verr)
			}
			modifiers = append(modifiers, sel.Modifiers...)
			unitPrice += sel.ExtraPrice
			warnings = append(warnings, sel.Warnings...)
			sauces = sel.Unmatched
		}
	}

	for _, m := range sauces {
		if m.Type != models.ComponentSauce {
			continue
		}
		mod, verr := e.sauceModifier(m.ProductName, modifiers, catalogue)
		if verr != nil {
			return fail(order, *verr)
		}
		modifiers = append(modifiers, mod)
		unitPrice += mod.ExtraPrice
	}

	now := e.Now()
	item := models.OrderItem{
		ID:             e.NewID(),
		ProductID:      product.ID,
		Name:           product.Name,
		ShortName:      product.ShortName,
		Category:       product.Category,
		Qty:            parsed.Quantity,
		Size:           size,
		UnitPrice:      unitPrice,
		LinePrice:      unitPrice * int64(parsed.Quantity),
		Modifiers:      modifiers,
		Customizations: e.customizations(parsed.Customizations),
		AddedAt:        now,
	}

	next := order.Clone()
	next.Items = append(next.Items, item)
	next.UpdatedAt = now
	RecalculateTotals(&next)

	if next.Total > MaxOrderTotal {
		return fail(order, totalExceeded(next.Total))
	}
	return succeed(next, warnings)
}

// sauceModifier resolves a sauce charged at its own base price. A sauce
// already present on the line is refused.
func (e *Engine) sauceModifier(name string, existing []models.OrderItemModifier, catalogue []models.Product) (models.OrderItemModifier, *ValidationError) {
	sauce, ok := ResolveInCategory(name, catalogue, models.CategorySauce)
	if !ok {
		verr := sauceNotFound(name)
		return models.OrderItemModifier{}, &verr
	}
	for _, m := range existing {
		if m.ProductID == sauce.ID {
			verr := sauceAlreadyAdded(sauce.Name)
			return models.OrderItemModifier{}, &verr
		}
	}
	return models.OrderItemModifier{
		ID:         e.NewID(),
		Type:       models.ComponentSauce,
		ProductID:  sauce.ID,
		Name:       sauce.Name,
		ExtraPrice: sauce.BasePrice,
	}, nil
}

func (e *Engine) customizations(parsed []models.ParsedCustomization) []models.OrderCustomization {
	var out []models.OrderCustomization
	for _, c := range parsed {
		if !c.Type.Valid() || Normalize(c.Ingredient) == "" {
			continue
		}
		out = append(out, models.OrderCustomization{
			ID:         e.NewID(),
			Type:       c.Type,
			Ingredient: c.Ingredient,
		})
	}
	return out
}

func unavailable(p models.Product, catalogue []models.Product) ValidationError {
	alts := FindAlternatives(p, catalogue)
	names := make([]string, 0, len(alts))
	for _, a := range alts {
		names = append(names, a.Name)
	}
	verr := ValidationError{
		Code:            CodeProductUnavailable,
		Message:         "product unavailable: " + p.Name,
		CustomerMessage: fmt.Sprintf("Désolé, %s n'est plus disponible.", p.Name),
		Recoverable:     true,
		SuggestedAction: ActionProposeAlternative,
		Details:         map[string]any{"alternatives": names},
	}
	if len(names) > 0 {
		verr.Suggestion = fmt.Sprintf("Puis-je vous proposer %s à la place ?", names[0])
	}
	return verr
}

func orderTooLarge() ValidationError {
	return ValidationError{
		Code:            CodeOrderTooLarge,
		Message:         "order has too many items",
		CustomerMessage: "La commande contient trop d'articles.",
		Recoverable:     false,
		SuggestedAction: ActionTransferHuman,
	}
}

func totalExceeded(total int64) ValidationError {
	return ValidationError{
		Code:            CodeOrderTotalExceeded,
		Message:         fmt.Sprintf("order total exceeds maximum: %d", total),
		CustomerMessage: "Le montant total de la commande est trop élevé.",
		Recoverable:     false,
		SuggestedAction: ActionTransferHuman,
	}
}
