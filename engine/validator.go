package engine

import (
	"fmt"

	"drive-thru/models"
)

// priceTolerance absorbs a one-cent rounding difference.
const priceTolerance = 1

// Report is the outcome of Validate. Every problem found is listed.
type Report struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// Validate re-checks a whole order against the current catalogue before it
// is confirmed. It never stops at the first problem.
func Validate(order models.Order, catalogue []models.Product, rules []models.MenuRule) Report {
	errs := []ValidationError{}

	if len(order.Items) == 0 {
		errs = append(errs, ValidationError{
			Code:            CodeEmptyOrder,
			Message:         "order is empty",
			CustomerMessage: "Votre commande est vide.",
			Recoverable:     true,
			SuggestedAction: ActionAskClarification,
		})
	}

	for i, item := range order.Items {
		field := fmt.Sprintf("items[%d]", i)

		product, ok := findProduct(catalogue, item.ProductID)
		if !ok {
			errs = append(errs, ValidationError{
				Code:            CodeProductNotInCatalogue,
				Message:         fmt.Sprintf("product %s not found", item.ProductID),
				CustomerMessage: fmt.Sprintf("%s n'est plus disponible dans notre menu.", item.Name),
				Field:           field + ".productId",
				Recoverable:     true,
				SuggestedAction: ActionRemoveItem,
			})
			continue
		}

		if !product.Available {
			errs = append(errs, ValidationError{
				Code:            CodeProductUnavailable,
				Message:         fmt.Sprintf("product %s is unavailable", product.Name),
				CustomerMessage: fmt.Sprintf("%s n'est plus disponible.", product.Name),
				Field:           field,
				Recoverable:     true,
				SuggestedAction: ActionProposeAlternative,
			})
		}

		if item.Qty < MinQuantity || item.Qty > MaxQuantityPerItem {
			errs = append(errs, ValidationError{
				Code:            CodeInvalidQuantity,
				Message:         fmt.Sprintf("invalid quantity for %s: %d", item.Name, item.Qty),
				CustomerMessage: fmt.Sprintf("Quantité invalide pour %s.", item.Name),
				Field:           field + ".qty",
				Recoverable:     true,
				SuggestedAction: ActionAskClarification,
			})
		}

		if product.Category == models.CategoryMenu {
			if rule, ok := findRule(rules, product.ID); ok {
				for _, verr := range validateComponents(item, rule) {
					verr.Field = field
					errs = append(errs, verr)
				}
			}
		}

		if expected := ExpectedItemPrice(item, product); abs(item.LinePrice-expected) > priceTolerance {
			errs = append(errs, ValidationError{
				Code:            CodePriceMismatch,
				Message:         fmt.Sprintf("price mismatch for %s: expected %d, got %d", item.Name, expected, item.LinePrice),
				CustomerMessage: fmt.Sprintf("Erreur de prix pour %s.", item.Name),
				Field:           field + ".linePrice",
				Recoverable:     true,
				Details:         map[string]any{"expected": expected, "actual": item.LinePrice},
			})
		}
	}

	if expected := ExpectedTotal(order); abs(order.Total-expected) > priceTolerance {
		errs = append(errs, ValidationError{
			Code:            CodeTotalMismatch,
			Message:         fmt.Sprintf("total mismatch: expected %d, got %d", expected, order.Total),
			CustomerMessage: "Erreur dans le calcul du total.",
			Recoverable:     true,
			Details:         map[string]any{"expected": expected, "actual": order.Total},
		})
	}

	if order.Total > MaxOrderTotal {
		errs = append(errs, ValidationError{
			Code:            CodeOrderTotalExceeded,
			Message:         fmt.Sprintf("order total exceeds maximum: %d", order.Total),
			CustomerMessage: "Le montant total dépasse la limite autorisée.",
			Recoverable:     false,
			SuggestedAction: ActionTransferHuman,
		})
	}

	if len(order.Items) > MaxItemsPerOrder {
		errs = append(errs, ValidationError{
			Code:            CodeTooManyItems,
			Message:         fmt.Sprintf("too many items: %d", len(order.Items)),
			CustomerMessage: "La commande contient trop d'articles.",
			Recoverable:     false,
			SuggestedAction: ActionTransferHuman,
		})
	}

	return Report{Valid: len(errs) == 0, Errors: errs}
}

func validateComponents(item models.OrderItem, rule models.MenuRule) []ValidationError {
	var errs []ValidationError
	for _, comp := range rule.Components {
		var picked []models.OrderItemModifier
		for _, m := range item.Modifiers {
			if m.Type == comp.Type {
				picked = append(picked, m)
			}
		}

		if len(picked) < comp.Min {
			article := "un"
			if comp.Min > 1 {
				article = fmt.Sprint(comp.Min)
			}
			errs = append(errs, ValidationError{
				Code:            CodeMissingMenuComponent,
				Message:         fmt.Sprintf("menu %s missing %s", item.Name, comp.Type),
				CustomerMessage: fmt.Sprintf("Il manque %s %s pour le %s.", article, comp.Type.Label(), item.Name),
				Recoverable:     true,
				SuggestedAction: ActionAskClarification,
				Details:         map[string]any{"missingType": string(comp.Type), "required": comp.Min, "current": len(picked)},
			})
		}

		if len(picked) > comp.Max {
			errs = append(errs, ValidationError{
				Code:            CodeTooManyComponents,
				Message:         fmt.Sprintf("menu %s has too many %s", item.Name, comp.Type),
				CustomerMessage: fmt.Sprintf("Trop de %s pour le %s.", comp.Type.Label(), item.Name),
				Recoverable:     true,
				SuggestedAction: ActionAskClarification,
				Details:         map[string]any{"type": string(comp.Type), "max": comp.Max, "current": len(picked)},
			})
		}

		for _, m := range picked {
			if comp.Allows(m.ProductID) {
				continue
			}
			if _, ok := comp.Upgrade(m.ProductID); ok {
				continue
			}
			errs = append(errs, ValidationError{
				Code:            CodeProductNotAllowedInMenu,
				Message:         fmt.Sprintf("%s not allowed in menu %s", m.Name, item.Name),
				CustomerMessage: fmt.Sprintf("%s n'est pas disponible dans ce menu.", m.Name),
				Recoverable:     true,
				SuggestedAction: ActionProposeAlternative,
				Details:         map[string]any{"productId": m.ProductID, "productName": m.Name},
			})
		}
	}
	return errs
}
