package services

import "drive-thru/models"

var (
	menuSizes = []models.ProductSizeOption{
		{Size: models.SizeMedium, DisplayName: "Normal", PriceModifier: 0},
		{Size: models.SizeLarge, DisplayName: "Maxi", PriceModifier: 80},
	}
	sodaSizes = []models.ProductSizeOption{
		{Size: models.SizeSmall, DisplayName: "20cl", PriceModifier: -50},
		{Size: models.SizeMedium, DisplayName: "35cl", PriceModifier: 0},
		{Size: models.SizeLarge, DisplayName: "50cl", PriceModifier: 50},
	}
	bottleSizes = []models.ProductSizeOption{
		{Size: models.SizeLarge, DisplayName: "50cl", PriceModifier: 0},
	}
)

func sizes(opts []models.ProductSizeOption) []models.ProductSizeOption {
	return append([]models.ProductSizeOption(nil), opts...)
}

// SeedCatalogue returns the built-in catalogue for the default store. Each
// call builds fresh slices.
func SeedCatalogue() Catalogue {
	products := []models.Product{
		// burgers and their menus
		{ID: "giant-burger", Name: "Giant", ShortName: "Giant", Category: models.CategoryBurger, Synonyms: []string{"le giant", "burger giant", "dja-yeunt"}, Available: true, BasePrice: 520, Ingredients: []string{"pain", "steak", "cheddar", "salade", "oignons", "sauce giant"}},
		{ID: "giant-menu", Name: "Menu Giant", ShortName: "Menu Giant", Category: models.CategoryMenu, Synonyms: []string{"menu giant", "formule giant"}, Available: true, BasePrice: 950, Sizes: sizes(menuSizes)},
		{ID: "quickntoast-burger", Name: "Quick'N Toast", ShortName: "Quick'N Toast", Category: models.CategoryBurger, Synonyms: []string{"quickntoast", "quick and toast", "toast"}, Available: true, BasePrice: 550},
		{ID: "quickntoast-menu", Name: "Menu Quick'N Toast", ShortName: "Menu Quick'N Toast", Category: models.CategoryMenu, Synonyms: []string{"menu quickntoast", "menu quick and toast"}, Available: true, BasePrice: 980, Sizes: sizes(menuSizes)},
		{ID: "long-bacon", Name: "Long Bacon", ShortName: "Long Bacon", Category: models.CategoryBurger, Synonyms: []string{"bacon long"}, Available: true, BasePrice: 580, Ingredients: []string{"pain", "steak", "bacon", "salade", "mayonnaise"}},
		{ID: "long-bacon-menu", Name: "Menu Long Bacon", ShortName: "Menu Long Bacon", Category: models.CategoryMenu, Synonyms: []string{"menu bacon long"}, Available: true, BasePrice: 1010, Sizes: sizes(menuSizes)},
		{ID: "long-chicken", Name: "Long Chicken", ShortName: "Long Chicken", Category: models.CategoryBurger, Synonyms: []string{"long chicken", "poulet long", "chicken long"}, Available: true, BasePrice: 550, Ingredients: []string{"pain", "poulet pané", "salade", "mayonnaise"}},
		{ID: "long-chicken-menu", Name: "Menu Long Chicken", ShortName: "Menu Long Chicken", Category: models.CategoryMenu, Synonyms: []string{"menu long chicken"}, Available: true, BasePrice: 980, Sizes: sizes(menuSizes)},
		{ID: "long-fish", Name: "Long Fish", ShortName: "Long Fish", Category: models.CategoryBurger, Synonyms: []string{"poisson long"}, Available: true, BasePrice: 560},
		{ID: "long-fish-menu", Name: "Menu Long Fish", ShortName: "Menu Long Fish", Category: models.CategoryMenu, Synonyms: []string{"menu long fish", "menu poisson"}, Available: true, BasePrice: 990, Sizes: sizes(menuSizes)},
		{ID: "giant-max", Name: "Giant Max", ShortName: "Giant Max", Category: models.CategoryBurger, Synonyms: []string{"giantmax", "max giant"}, Available: true, BasePrice: 680},
		{ID: "giant-max-menu", Name: "Menu Giant Max", ShortName: "Menu Giant Max", Category: models.CategoryMenu, Synonyms: []string{"menu giant max"}, Available: true, BasePrice: 1110, Sizes: sizes(menuSizes)},
		{ID: "supreme-classiq", Name: "Suprême ClassiQ", ShortName: "Suprême ClassiQ", Category: models.CategoryBurger, Synonyms: []string{"supreme classic", "classiq"}, Available: true, BasePrice: 720},
		{ID: "supreme-classiq-menu", Name: "Menu Suprême ClassiQ", ShortName: "Menu Suprême ClassiQ", Category: models.CategoryMenu, Synonyms: []string{"menu supreme classic"}, Available: true, BasePrice: 1150, Sizes: sizes(menuSizes)},

		// finger food
		{ID: "chicken-dips-7", Name: "Chicken Dips", ShortName: "Chicken Dips", Category: models.CategoryBurger, Synonyms: []string{"dips", "nuggets"}, Available: true, BasePrice: 480},
		{ID: "chicken-dips-menu", Name: "Menu Chicken Dips", ShortName: "Menu Dips", Category: models.CategoryMenu, Synonyms: []string{"menu dips", "menu nuggets"}, Available: true, BasePrice: 910, Sizes: sizes(menuSizes)},
		{ID: "chicken-wings-5", Name: "Chicken Wings", ShortName: "Wings", Category: models.CategoryBurger, Synonyms: []string{"wings", "ailes de poulet"}, Available: true, BasePrice: 520},
		{ID: "chicken-wings-menu", Name: "Menu Chicken Wings", ShortName: "Menu Wings", Category: models.CategoryMenu, Synonyms: []string{"menu wings"}, Available: true, BasePrice: 950, Sizes: sizes(menuSizes)},

		// sides
		{ID: "fries", Name: "Frites", ShortName: "Frites", Category: models.CategorySide, Synonyms: []string{"frite", "pommes frites", "patate frites"}, Available: true, BasePrice: 280, Sizes: []models.ProductSizeOption{
			{Size: models.SizeSmall, DisplayName: "Petite", PriceModifier: -30},
			{Size: models.SizeMedium, DisplayName: "Moyenne", PriceModifier: 0},
			{Size: models.SizeLarge, DisplayName: "Grande", PriceModifier: 50},
		}},
		{ID: "rustiques", Name: "Rustiques", ShortName: "Rustiques", Category: models.CategorySide, Synonyms: []string{"potatoes", "rustique", "patates"}, Available: true, BasePrice: 320, Sizes: []models.ProductSizeOption{
			{Size: models.SizeMedium, DisplayName: "Moyenne", PriceModifier: 0},
			{Size: models.SizeLarge, DisplayName: "Grande", PriceModifier: 50},
		}},

		// drinks
		{ID: "coca", Name: "Coca-Cola", ShortName: "Coca", Category: models.CategoryDrink, Synonyms: []string{"coca", "coke", "coca cola"}, Available: true, BasePrice: 250, Sizes: sizes(sodaSizes)},
		{ID: "coca-zero", Name: "Coca-Cola Zéro", ShortName: "Coca Zéro", Category: models.CategoryDrink, Synonyms: []string{"coca zéro", "zéro", "coca zero", "coke zero"}, Available: true, BasePrice: 250, Sizes: sizes(sodaSizes)},
		{ID: "fanta", Name: "Fanta", ShortName: "Fanta", Category: models.CategoryDrink, Synonyms: []string{"fanta orange"}, Available: true, BasePrice: 250, Sizes: sizes(sodaSizes)},
		{ID: "sprite", Name: "Sprite", ShortName: "Sprite", Category: models.CategoryDrink, Synonyms: []string{"sprite"}, Available: true, BasePrice: 250, Sizes: sizes(sodaSizes)},
		{ID: "ice-tea", Name: "FuzeTea Pêche", ShortName: "Ice Tea", Category: models.CategoryDrink, Synonyms: []string{"fuzetea", "ice tea", "thé glacé"}, Available: true, BasePrice: 270, Sizes: []models.ProductSizeOption{
			{Size: models.SizeMedium, DisplayName: "35cl", PriceModifier: 0},
			{Size: models.SizeLarge, DisplayName: "50cl", PriceModifier: 50},
		}},
		{ID: "water", Name: "Eau Vittel", ShortName: "Eau", Category: models.CategoryDrink, Synonyms: []string{"eau", "vittel", "eau plate"}, Available: true, BasePrice: 220, Sizes: sizes(bottleSizes)},
		{ID: "badoit", Name: "Badoit", ShortName: "Badoit", Category: models.CategoryDrink, Synonyms: []string{"eau gazeuse"}, Available: true, BasePrice: 250, Sizes: sizes(bottleSizes)},
		{ID: "juice-apple", Name: "Minute Maid Pomme", ShortName: "Jus Pomme", Category: models.CategoryDrink, Synonyms: []string{"jus de pomme", "jus pomme"}, Available: true, BasePrice: 280},

		// sauces
		{ID: "sauce-giant", Name: "Sauce Giant", ShortName: "Sauce Giant", Category: models.CategorySauce, Synonyms: []string{}, Available: true, BasePrice: 50},
		{ID: "sauce-bbq", Name: "Sauce Barbecue", ShortName: "BBQ", Category: models.CategorySauce, Synonyms: []string{"barbecue", "bbq"}, Available: true, BasePrice: 50},
		{ID: "sauce-curry", Name: "Sauce Curry Mango", ShortName: "Curry", Category: models.CategorySauce, Synonyms: []string{"curry"}, Available: true, BasePrice: 50},
		{ID: "sauce-mayo", Name: "Sauce Mayonnaise", ShortName: "Mayo", Category: models.CategorySauce, Synonyms: []string{"mayonnaise", "mayo"}, Available: true, BasePrice: 50},
		{ID: "sauce-ketchup", Name: "Ketchup", ShortName: "Ketchup", Category: models.CategorySauce, Synonyms: []string{}, Available: true, BasePrice: 50},

		// desserts
		{ID: "churros-5", Name: "Churros x5", ShortName: "Churros", Category: models.CategoryDessert, Synonyms: []string{"churros"}, Available: true, BasePrice: 300},
		{ID: "churros-kitkat", Name: "Churros KitKat", ShortName: "Churros KitKat", Category: models.CategoryDessert, Synonyms: []string{"churros kitkat", "kitkat"}, Available: true, BasePrice: 350},
		{ID: "cookie-choco", Name: "Cookie Trio Choco", ShortName: "Cookie", Category: models.CategoryDessert, Synonyms: []string{"cookie", "cookies"}, Available: true, BasePrice: 250},
		{ID: "fondant-chocolat", Name: "Fondant au Chocolat", ShortName: "Fondant", Category: models.CategoryDessert, Synonyms: []string{"fondant"}, Available: true, BasePrice: 300},
		{ID: "donut", Name: "Qarré Donut Sucre", ShortName: "Donut", Category: models.CategoryDessert, Synonyms: []string{"donut", "beignet"}, Available: true, BasePrice: 280},

		// kids
		{ID: "magic-box", Name: "Magic Box", ShortName: "Magic Box", Category: models.CategoryMenu, Synonyms: []string{"menu enfant", "menu kids", "magic"}, Available: true, BasePrice: 580},
		{ID: "fun-box", Name: "Fun Box", ShortName: "Fun Box", Category: models.CategoryMenu, Synonyms: []string{"fun box", "menu ado"}, Available: true, BasePrice: 680},
	}

	rules := make([]models.MenuRule, 0, 11)
	for _, id := range []string{
		"giant-menu", "quickntoast-menu", "long-bacon-menu", "long-chicken-menu", "long-fish-menu",
		"giant-max-menu", "supreme-classiq-menu", "chicken-dips-menu", "chicken-wings-menu",
	} {
		rules = append(rules, models.MenuRule{
			MenuProductID: id,
			Name:          productName(products, id),
			Components:    []models.MenuComponent{menuSide(), menuDrink()},
		})
	}
	for _, id := range []string{"magic-box", "fun-box"} {
		rules = append(rules, models.MenuRule{
			MenuProductID: id,
			Name:          productName(products, id),
			Components: []models.MenuComponent{
				{Type: models.ComponentSide, DisplayName: "Accompagnement", Min: 1, Max: 1, AllowedProductIDs: []string{"fries"}, DefaultProductID: "fries", PriceIncluded: true},
				{Type: models.ComponentDrink, DisplayName: "Boisson", Min: 1, Max: 1, AllowedProductIDs: []string{"water", "juice-apple"}, DefaultProductID: "juice-apple", PriceIncluded: true},
				{Type: models.ComponentDessert, DisplayName: "Dessert", Min: 0, Max: 1, AllowedProductIDs: []string{"donut", "cookie-choco"}, PriceIncluded: true},
			},
		})
	}

	return Catalogue{StoreID: DefaultStoreID, Products: products, Rules: rules}
}

func menuSide() models.MenuComponent {
	return models.MenuComponent{
		Type:              models.ComponentSide,
		DisplayName:       "Accompagnement",
		Min:               1,
		Max:               1,
		AllowedProductIDs: []string{"fries", "rustiques"},
		DefaultProductID:  "fries",
		PriceIncluded:     true,
	}
}

func menuDrink() models.MenuComponent {
	return models.MenuComponent{
		Type:              models.ComponentDrink,
		DisplayName:       "Boisson",
		Min:               1,
		Max:               1,
		AllowedProductIDs: []string{"coca", "coca-zero", "water"},
		DefaultProductID:  "coca",
		PriceIncluded:     true,
		UpgradeOptions: []models.UpgradeOption{
			{ProductID: "ice-tea", ExtraPrice: 30, Description: "FuzeTea"},
			{ProductID: "juice-apple", ExtraPrice: 30, Description: "Jus de pomme"},
		},
	}
}

func productName(products []models.Product, id string) string {
	for _, p := range products {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
