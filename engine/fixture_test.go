package engine

import (
	"fmt"
	"testing"
	"time"

	"drive-thru/models"
)

func testEngine() *Engine {
	n := 0
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &Engine{
		Now: func() time.Time { return at },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func testCatalogue() []models.Product {
	drinkSizes := []models.ProductSizeOption{
		{Size: models.SizeSmall, DisplayName: "Petit", PriceModifier: -50},
		{Size: models.SizeMedium, DisplayName: "Moyen"},
		{Size: models.SizeLarge, DisplayName: "Grand", PriceModifier: 50},
	}
	return []models.Product{
		{ID: "giant-burger", Name: "Giant", ShortName: "Giant", Category: models.CategoryBurger, Synonyms: []string{"le giant", "burger giant"}, Available: true, BasePrice: 520, Ingredients: []string{"steak", "cheddar", "salade", "oignons"}},
		{ID: "long-chicken", Name: "Long Chicken", ShortName: "Long Chicken", Category: models.CategoryBurger, Synonyms: []string{"long chicken"}, Available: true, BasePrice: 550},
		{ID: "giant-menu", Name: "Menu Giant", ShortName: "Menu Giant", Category: models.CategoryMenu, Synonyms: []string{"menu giant", "formule giant"}, Available: true, BasePrice: 950, Sizes: []models.ProductSizeOption{
			{Size: models.SizeMedium, DisplayName: "Normal"},
			{Size: models.SizeLarge, DisplayName: "Maxi", PriceModifier: 80},
		}},
		{ID: "long-chicken-menu", Name: "Menu Long Chicken", ShortName: "Menu Long Chicken", Category: models.CategoryMenu, Available: true, BasePrice: 980},
		{ID: "fries", Name: "Frites", ShortName: "Frites", Category: models.CategorySide, Synonyms: []string{"frite", "pommes frites"}, Available: true, BasePrice: 280, Sizes: []models.ProductSizeOption{
			{Size: models.SizeSmall, DisplayName: "Petite", PriceModifier: -30},
			{Size: models.SizeMedium, DisplayName: "Moyenne"},
			{Size: models.SizeLarge, DisplayName: "Grande", PriceModifier: 50},
		}},
		{ID: "rustiques", Name: "Rustiques", ShortName: "Rustiques", Category: models.CategorySide, Synonyms: []string{"potatoes", "patates"}, Available: true, BasePrice: 320},
		{ID: "coca", Name: "Coca-Cola", ShortName: "Coca", Category: models.CategoryDrink, Synonyms: []string{"coca", "coke", "coca cola"}, Available: true, BasePrice: 250, Sizes: drinkSizes},
		{ID: "coca-zero", Name: "Coca-Cola Zéro", ShortName: "Coca Zéro", Category: models.CategoryDrink, Synonyms: []string{"coca zéro", "coke zero"}, Available: true, BasePrice: 250, Sizes: drinkSizes},
		{ID: "sprite", Name: "Sprite", ShortName: "Sprite", Category: models.CategoryDrink, Available: true, BasePrice: 250},
		{ID: "ice-tea", Name: "FuzeTea Pêche", ShortName: "Ice Tea", Category: models.CategoryDrink, Synonyms: []string{"fuzetea", "ice tea", "thé glacé"}, Available: true, BasePrice: 270},
		{ID: "water", Name: "Eau Vittel", ShortName: "Eau", Category: models.CategoryDrink, Synonyms: []string{"eau", "vittel"}, Available: true, BasePrice: 220},
		{ID: "sauce-bbq", Name: "Sauce Barbecue", ShortName: "BBQ", Category: models.CategorySauce, Synonyms: []string{"barbecue", "bbq"}, Available: true, BasePrice: 50},
		{ID: "sauce-mayo", Name: "Sauce Mayonnaise", ShortName: "Mayo", Category: models.CategorySauce, Synonyms: []string{"mayo", "mayonnaise"}, Available: true, BasePrice: 50},
		{ID: "fondant-chocolat", Name: "Fondant au Chocolat", ShortName: "Fondant", Category: models.CategoryDessert, Available: true, BasePrice: 300},
	}
}

func testRules() []models.MenuRule {
	side := models.MenuComponent{
		Type: models.ComponentSide, DisplayName: "Accompagnement", Min: 1, Max: 1,
		AllowedProductIDs: []string{"fries", "rustiques"}, DefaultProductID: "fries", PriceIncluded: true,
	}
	drink := models.MenuComponent{
		Type: models.ComponentDrink, DisplayName: "Boisson", Min: 1, Max: 1,
		AllowedProductIDs: []string{"coca", "coca-zero", "water"}, DefaultProductID: "coca", PriceIncluded: true,
		UpgradeOptions: []models.UpgradeOption{{ProductID: "ice-tea", ExtraPrice: 50, Description: "Ice Tea"}},
	}
	dessert := models.MenuComponent{
		Type: models.ComponentDessert, DisplayName: "Dessert", Min: 0, Max: 1,
		AllowedProductIDs: []string{"fondant-chocolat"},
	}
	return []models.MenuRule{
		{MenuProductID: "giant-menu", Name: "Menu Giant", Components: []models.MenuComponent{side, drink, dessert}},
		{MenuProductID: "long-chicken-menu", Name: "Menu Long Chicken", Components: []models.MenuComponent{side, drink}},
	}
}

func withAvailability(catalogue []models.Product, id string, available bool) []models.Product {
	out := make([]models.Product, len(catalogue))
	copy(out, catalogue)
	for i := range out {
		if out[i].ID == id {
			out[i].Available = available
		}
	}
	return out
}

// checkTotals fails t when the order's stored money does not add up.
func checkTotals(t *testing.T, o models.Order) {
	t.Helper()
	var subtotal int64
	for i, it := range o.Items {
		if it.LinePrice != it.UnitPrice*int64(it.Qty) {
			t.Errorf("items[%d]: linePrice %d != unitPrice %d * qty %d", i, it.LinePrice, it.UnitPrice, it.Qty)
		}
		subtotal += it.LinePrice
	}
	if o.Subtotal != subtotal {
		t.Errorf("subtotal = %d, want %d", o.Subtotal, subtotal)
	}
	var disc int64
	for _, d := range o.Discounts {
		disc += d.AppliedAmount
	}
	if o.Total != o.Subtotal-disc {
		t.Errorf("total = %d, want %d", o.Total, o.Subtotal-disc)
	}
}
