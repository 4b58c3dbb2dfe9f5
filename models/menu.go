package models

import "fmt"

// Category is the catalogue family a product belongs to.
type Category string

const (
	CategoryMenu    Category = "menu"
	CategoryBurger  Category = "burger"
	CategorySide    Category = "side"
	CategoryDrink   Category = "drink"
	CategoryDessert Category = "dessert"
	CategorySauce   Category = "sauce"
	CategoryExtra   Category = "extra"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryMenu, CategoryBurger, CategorySide, CategoryDrink, CategoryDessert, CategorySauce, CategoryExtra:
		return true
	}
	return false
}

type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// ComponentType is the kind of slot a menu declares. Each type maps 1:1 to
// the catalogue category its products are drawn from.
type ComponentType string

const (
	ComponentSide    ComponentType = "side"
	ComponentDrink   ComponentType = "drink"
	ComponentDessert ComponentType = "dessert"
	ComponentSauce   ComponentType = "sauce"
)

func (t ComponentType) Valid() bool {
	switch t {
	case ComponentSide, ComponentDrink, ComponentDessert, ComponentSauce:
		return true
	}
	return false
}

// Category returns the catalogue category products for this slot come from.
func (t ComponentType) Category() Category {
	switch t {
	case ComponentSide:
		return CategorySide
	case ComponentDrink:
		return CategoryDrink
	case ComponentDessert:
		return CategoryDessert
	case ComponentSauce:
		return CategorySauce
	}
	return ""
}

// Label is the French noun used in customer-facing messages.
func (t ComponentType) Label() string {
	switch t {
	case ComponentSide:
		return "accompagnement"
	case ComponentDrink:
		return "boisson"
	case ComponentDessert:
		return "dessert"
	case ComponentSauce:
		return "sauce"
	}
	return string(t)
}

type ProductSizeOption struct {
	Size          Size   `json:"size"`
	DisplayName   string `json:"displayName"`
	PriceModifier int64  `json:"priceModifier"` // minor units, may be negative
}

// Product is one catalogue entry. Prices are in minor currency units (990 = 9,90 €).
type Product struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	ShortName   string              `json:"shortName"` // narrow screens and speech
	Category    Category            `json:"category"`
	Synonyms    []string            `json:"synonyms"`
	Available   bool                `json:"available"`
	BasePrice   int64               `json:"basePrice"`
	Sizes       []ProductSizeOption `json:"sizes,omitempty"`
	Ingredients []string            `json:"ingredients,omitempty"`
}

// SizeOption returns the option for size, if the product offers it.
func (p Product) SizeOption(size Size) (ProductSizeOption, bool) {
	for _, o := range p.Sizes {
		if o.Size == size {
			return o, true
		}
	}
	return ProductSizeOption{}, false
}

// HasSizes reports whether the product is sold in more than one format.
func (p Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

func (p Product) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("product id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("product %s: name is required", p.ID)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("product %s: invalid category: %s", p.ID, p.Category)
	}
	if p.BasePrice < 0 {
		return fmt.Errorf("product %s: price must be >= 0", p.ID)
	}
	for _, o := range p.Sizes {
		if !o.Size.Valid() {
			return fmt.Errorf("product %s: invalid size: %s", p.ID, o.Size)
		}
	}
	return nil
}

type UpgradeOption struct {
	ProductID   string `json:"productId"`
	ExtraPrice  int64  `json:"extraPrice"`
	Description string `json:"description,omitempty"`
}

type MenuComponent struct {
	Type              ComponentType   `json:"type"`
	DisplayName       string          `json:"displayName"` // "Accompagnement", "Boisson"
	Min               int             `json:"min"`
	Max               int             `json:"max"`
	AllowedProductIDs []string        `json:"allowedProductIds"`
	DefaultProductID  string          `json:"defaultProductId"`
	PriceIncluded     bool            `json:"priceIncluded"`
	UpgradeOptions    []UpgradeOption `json:"upgradeOptions,omitempty"`
}

// Allows reports whether productID is one of the included choices.
func (c MenuComponent) Allows(productID string) bool {
	for _, id := range c.AllowedProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Upgrade returns the surcharge option for productID, if any.
func (c MenuComponent) Upgrade(productID string) (UpgradeOption, bool) {
	for _, u := range c.UpgradeOptions {
		if u.ProductID == productID {
			return u, true
		}
	}
	return UpgradeOption{}, false
}

// MenuRule binds a menu product to the ordered list of slots it bundles.
type MenuRule struct {
	MenuProductID string          `json:"menuProductId"`
	Name          string          `json:"name"`
	Components    []MenuComponent `json:"components"`
}

// Component returns the first slot of the given type.
func (r MenuRule) Component(t ComponentType) (MenuComponent, bool) {
	for _, c := range r.Components {
		if c.Type == t {
			return c, true
		}
	}
	return MenuComponent{}, false
}

func (r MenuRule) Validate() error {
	if r.MenuProductID == "" {
		return fmt.Errorf("menu rule: menu product id is required")
	}
	for i, c := range r.Components {
		if !c.Type.Valid() {
			return fmt.Errorf("menu rule %s: component %d: invalid type: %s", r.MenuProductID, i, c.Type)
		}
		if c.Min < 0 || c.Min > c.Max {
			return fmt.Errorf("menu rule %s: component %s: need 0 <= min <= max, got min=%d max=%d", r.MenuProductID, c.Type, c.Min, c.Max)
		}
		if c.Min > 0 && !c.Allows(c.DefaultProductID) {
			return fmt.Errorf("menu rule %s: component %s: default %q not in allowed products", r.MenuProductID, c.Type, c.DefaultProductID)
		}
	}
	return nil
}
