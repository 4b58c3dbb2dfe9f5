package engine

import (
	"strings"

	"drive-thru/models"
)

// Resolve maps a free-text reference to an available catalogue product.
// Strategies run in order and the first hit wins: exact name or short name,
// exact synonym, substring either way against name or synonyms, then the
// best fuzzy score above FuzzyThreshold (earliest product wins ties).
func Resolve(ref string, catalogue []models.Product) (models.Product, bool) {
	return resolve(ref, catalogue, func(p models.Product) bool { return p.Available })
}

// ResolveInCategory is Resolve restricted to one category.
func ResolveInCategory(ref string, catalogue []models.Product, category models.Category) (models.Product, bool) {
	return resolve(ref, catalogue, func(p models.Product) bool {
		return p.Available && p.Category == category
	})
}

// ResolveAny ignores availability. It is used to find what the customer
// already has in the cart, so an item that went out of stock can still be
// removed.
func ResolveAny(ref string, catalogue []models.Product) (models.Product, bool) {
	return resolve(ref, catalogue, func(models.Product) bool { return true })
}

func resolve(ref string, catalogue []models.Product, keep func(models.Product) bool) (models.Product, bool) {
	search := Normalize(ref)
	if search == "" {
		return models.Product{}, false
	}

	candidates := make([]models.Product, 0, len(catalogue))
	for _, p := range catalogue {
		if keep(p) {
			candidates = append(candidates, p)
		}
	}

	for _, p := range candidates {
		if Normalize(p.Name) == search || Normalize(p.ShortName) == search {
			return p, true
		}
	}

	for _, p := range candidates {
		for _, s := range p.Synonyms {
			if Normalize(s) == search {
				return p, true
			}
		}
	}

	for _, p := range candidates {
		if containsEither(Normalize(p.Name), search) {
			return p, true
		}
		for _, s := range p.Synonyms {
			if containsEither(Normalize(s), search) {
				return p, true
			}
		}
	}

	var best models.Product
	bestScore := 0.0
	found := false
	for _, p := range candidates {
		names := append([]string{p.Name, p.ShortName}, p.Synonyms...)
		for _, n := range names {
			score := Similarity(search, Normalize(n))
			if score > FuzzyThreshold && score > bestScore {
				best, bestScore, found = p, score, true
			}
		}
	}
	return best, found
}

func containsEither(name, search string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(name, search) || strings.Contains(search, name)
}

// FindAlternatives proposes up to three available products of the same
// category priced close to p.
func FindAlternatives(p models.Product, catalogue []models.Product) []models.Product {
	var out []models.Product
	for _, c := range catalogue {
		if len(out) == maxAlternatives {
			break
		}
		if c.ID == p.ID || c.Category != p.Category || !c.Available {
			continue
		}
		diff := c.BasePrice - p.BasePrice
		if diff < 0 {
			diff = -diff
		}
		if diff < alternativePriceWindow {
			out = append(out, c)
		}
	}
	return out
}
