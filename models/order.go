package models

import "time"

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusSentToPOS OrderStatus = "sent_to_pos"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusRejected, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type CustomizationType string

const (
	CustomizationRemoveIngredient CustomizationType = "remove_ingredient"
	CustomizationAddIngredient    CustomizationType = "add_ingredient"
)

func (t CustomizationType) Valid() bool {
	return t == CustomizationRemoveIngredient || t == CustomizationAddIngredient
}

type OrderItemModifier struct {
	ID         string        `json:"id"`
	Type       ComponentType `json:"type"`
	ProductID  string        `json:"productId"`
	Name       string        `json:"name"`
	ExtraPrice int64         `json:"extraPrice"` // 0 when included in the menu price
}

type OrderCustomization struct {
	ID         string            `json:"id"`
	Type       CustomizationType `json:"type"`
	Ingredient string            `json:"ingredient"`
	ExtraPrice int64             `json:"extraPrice"`
}

// OrderItem is one order line. Name, ShortName and Category are copied from
// the catalogue when the line is added and never refreshed afterwards.
type OrderItem struct {
	ID             string               `json:"id"`
	ProductID      string               `json:"productId"`
	Name           string               `json:"name"`
	ShortName      string               `json:"shortName"`
	Category       Category             `json:"category"`
	Qty            int                  `json:"qty"`
	Size           Size                 `json:"size,omitempty"`
	UnitPrice      int64                `json:"unitPrice"`
	LinePrice      int64                `json:"linePrice"` // UnitPrice * Qty
	Modifiers      []OrderItemModifier  `json:"modifiers"`
	Customizations []OrderCustomization `json:"customizations,omitempty"`
	AddedAt        time.Time            `json:"addedAt"`
}

type OrderDiscount struct {
	ID            string       `json:"id"`
	Code          string       `json:"code,omitempty"`
	Description   string       `json:"description"`
	Type          DiscountType `json:"type"`
	Value         int64        `json:"value"` // percent for percentage, minor units for fixed
	AppliedAmount int64        `json:"appliedAmount"`
}

// Order is treated as a value: engine operations return a new Order and never
// write through the slices of the one they were given.
type Order struct {
	ID          string          `json:"id"`
	SessionID   string          `json:"sessionId"`
	StoreID     string          `json:"storeId"`
	LaneID      string          `json:"laneId,omitempty"`
	Items       []OrderItem     `json:"items"`
	Subtotal    int64           `json:"subtotal"`
	Tax         int64           `json:"tax"`
	Discounts   []OrderDiscount `json:"discounts"`
	Total       int64           `json:"total"`
	Currency    string          `json:"currency"`
	Status      OrderStatus     `json:"status"`
	POSOrderID  string          `json:"posOrderId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	ConfirmedAt *time.Time      `json:"confirmedAt,omitempty"`
}

// Clone returns a copy whose item and discount slices can be changed without
// affecting o. Modifier and customization slices stay shared until replaced.
func (o Order) Clone() Order {
	c := o
	c.Items = make([]OrderItem, len(o.Items))
	copy(c.Items, o.Items)
	c.Discounts = make([]OrderDiscount, len(o.Discounts))
	copy(c.Discounts, o.Discounts)
	if o.ConfirmedAt != nil {
		t := *o.ConfirmedAt
		c.ConfirmedAt = &t
	}
	return c
}

// ItemCount is the number of units across all lines.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Qty
	}
	return n
}
