package models

// Parsed input as delivered by the upstream intent layer.

type ParsedModifier struct {
	Type        ComponentType `json:"type"`
	ProductName string        `json:"productName"`
}

type ParsedCustomization struct {
	Type       CustomizationType `json:"type"`
	Ingredient string            `json:"ingredient"`
}

type ParsedOrderItem struct {
	ProductName    string                `json:"productName"`
	Quantity       int                   `json:"quantity"`
	Size           Size                  `json:"size,omitempty"`
	Modifiers      []ParsedModifier      `json:"modifiers,omitempty"`
	Customizations []ParsedCustomization `json:"customizations,omitempty"`
}

type ModificationType string

const (
	ModChangeQuantity   ModificationType = "change_quantity"
	ModChangeSize       ModificationType = "change_size"
	ModChangeSide       ModificationType = "change_side"
	ModChangeDrink      ModificationType = "change_drink"
	ModAddSauce         ModificationType = "add_sauce"
	ModRemoveIngredient ModificationType = "remove_ingredient"
	ModAddIngredient    ModificationType = "add_ingredient"
)

// ItemRef points at an order line either by position or by id. Index wins
// when both are set.
type ItemRef struct {
	ID    string `json:"itemId,omitempty"`
	Index *int   `json:"itemIndex,omitempty"`
}

// IndexRef is a convenience for building an ItemRef by position.
func IndexRef(i int) ItemRef {
	return ItemRef{Index: &i}
}

// Modification changes one existing order line. Value carries the new
// product name, size or ingredient; Quantity is used by change_quantity.
type Modification struct {
	Type          ModificationType `json:"type"`
	Item          ItemRef          `json:"item"`
	Value         string           `json:"value,omitempty"`
	Quantity      int              `json:"quantity,omitempty"`
	ModifierIndex *int             `json:"modifierIndex,omitempty"`
}
