package engine

import (
	"fmt"

	"drive-thru/models"
)

// ComponentSelection is what a menu rule resolves to for one order line.
type ComponentSelection struct {
	Modifiers  []models.OrderItemModifier
	ExtraPrice int64
	Warnings   []string
	// Unmatched holds parsed modifiers whose type has no slot in the rule.
	Unmatched []models.ParsedModifier
}

// ApplyComponents walks the rule's slots in declaration order. A slot the
// customer named is resolved within its category and must be an included
// choice or a priced upgrade. A required slot the customer did not name is
// filled with its default without asking; optional slots are skipped.
func (e *Engine) ApplyComponents(parsed []models.ParsedModifier, rule models.MenuRule, catalogue []models.Product) (ComponentSelection, *ValidationError) {
	var sel ComponentSelection
	used := make([]bool, len(parsed))

	for _, comp := range rule.Components {
		var picks []models.ParsedModifier
		for i, m := range parsed {
			if !used[i] && m.Type == comp.Type {
				used[i] = true
				picks = append(picks, m)
			}
		}
		if len(picks) > comp.Max {
			return sel, &ValidationError{
				Code:            CodeTooManyComponents,
				Message:         fmt.Sprintf("%d %s given, rule %s allows %d", len(picks), comp.Type, rule.MenuProductID, comp.Max),
				CustomerMessage: fmt.Sprintf("Ce menu comprend au maximum %d %s.", comp.Max, comp.Type.Label()),
				Recoverable:     true,
				SuggestedAction: ActionAskClarification,
				Details:         map[string]any{"type": string(comp.Type), "max": comp.Max, "current": len(picks)},
			}
		}

		for _, pick := range picks {
			mod, warning, verr := e.resolveComponent(pick, comp, catalogue)
			if verr != nil {
				return sel, verr
			}
			sel.Modifiers = append(sel.Modifiers, mod)
			sel.ExtraPrice += mod.ExtraPrice
			if warning != "" {
				sel.Warnings = append(sel.Warnings, warning)
			}
		}

		for n := len(picks); n < comp.Min; n++ {
			p, ok := defaultProduct(comp, catalogue)
			if !ok {
				return sel, &ValidationError{
					Code:            CodeMissingMenuComponent,
					Message:         fmt.Sprintf("no default %s available for %s", comp.Type, rule.MenuProductID),
					CustomerMessage: fmt.Sprintf("Quel %s souhaitez-vous ?", comp.Type.Label()),
					Recoverable:     true,
					SuggestedAction: ActionAskClarification,
					Details:         map[string]any{"componentType": string(comp.Type), "options": allowedNames(comp, catalogue)},
				}
			}
			sel.Modifiers = append(sel.Modifiers, models.OrderItemModifier{
				ID:        e.NewID(),
				Type:      comp.Type,
				ProductID: p.ID,
				Name:      p.Name,
			})
		}
	}

	for i, m := range parsed {
		if !used[i] {
			sel.Unmatched = append(sel.Unmatched, m)
		}
	}
	return sel, nil
}

func (e *Engine) resolveComponent(pick models.ParsedModifier, comp models.MenuComponent, catalogue []models.Product) (models.OrderItemModifier, string, *ValidationError) {
	p, ok := ResolveInCategory(pick.ProductName, catalogue, comp.Type.Category())
	if !ok {
		return models.OrderItemModifier{}, "", &ValidationError{
			Code:            CodeModifierNotFound,
			Message:         fmt.Sprintf("%s not found: %s", comp.Type, pick.ProductName),
			CustomerMessage: fmt.Sprintf("Je ne trouve pas \"%s\".", pick.ProductName),
			Recoverable:     true,
			SuggestedAction: ActionAskClarification,
		}
	}

	var extra int64
	var warning string
	if !comp.Allows(p.ID) {
		up, ok := comp.Upgrade(p.ID)
		if !ok {
			return models.OrderItemModifier{}, "", &ValidationError{
				Code:            CodeProductNotAllowed,
				Message:         fmt.Sprintf("%s not allowed as %s", p.Name, comp.Type),
				CustomerMessage: fmt.Sprintf("%s n'est pas disponible comme %s.", p.Name, comp.Type.Label()),
				Recoverable:     true,
				SuggestedAction: ActionProposeAlternative,
				Details:         map[string]any{"allowed": allowedNames(comp, catalogue)},
			}
		}
		extra = up.ExtraPrice
		warning = fmt.Sprintf("Supplément +%s pour %s", FormatPrice(extra), p.Name)
	}

	return models.OrderItemModifier{
		ID:         e.NewID(),
		Type:       comp.Type,
		ProductID:  p.ID,
		Name:       p.Name,
		ExtraPrice: extra,
	}, warning, nil
}

// defaultProduct returns the slot default, or the first available included
// choice when the default is out of stock.
func defaultProduct(comp models.MenuComponent, catalogue []models.Product) (models.Product, bool) {
	if p, ok := findProduct(catalogue, comp.DefaultProductID); ok && p.Available {
		return p, true
	}
	for _, id := range comp.AllowedProductIDs {
		if p, ok := findProduct(catalogue, id); ok && p.Available {
			return p, true
		}
	}
	return models.Product{}, false
}

func allowedNames(comp models.MenuComponent, catalogue []models.Product) []string {
	names := make([]string, 0, len(comp.AllowedProductIDs))
	for _, id := range comp.AllowedProductIDs {
		if p, ok := findProduct(catalogue, id); ok {
			names = append(names, p.Name)
		}
	}
	return names
}
