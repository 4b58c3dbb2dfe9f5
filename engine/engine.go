// Package engine turns parsed order fragments into a priced, validated order.
//
// Every operation is pure: it reads the order, catalogue and menu rules it is
// given and returns a new Order value inside a Result. Nothing here blocks,
// logs or keeps state between calls, so one Engine can serve every session.
package engine

import (
	"time"

	"drive-thru/models"

	"github.com/google/uuid"
)

const (
	MinQuantity        = 1
	MaxQuantityPerItem = 10
	MaxItemsPerOrder   = 50
	MaxOrderTotal      = 50000 // 500 €

	// TaxRatePerMille is the reduced French VAT rate for takeaway food (5.5%).
	TaxRatePerMille = 55

	FuzzyThreshold = 0.75

	// alternatives for an unavailable product must be priced within this
	// distance of it
	alternativePriceWindow = 300
	maxAlternatives        = 3

	Currency = "EUR"
)

// Engine carries the clock and id source. Tests replace both.
type Engine struct {
	Now   func() time.Time
	NewID func() string
}

func New() *Engine {
	return &Engine{Now: time.Now, NewID: uuid.NewString}
}

// Result is the envelope every mutation returns. On failure Order is the
// input order, untouched.
type Result struct {
	Success  bool              `json:"success"`
	Order    models.Order      `json:"order"`
	Errors   []ValidationError `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

func fail(order models.Order, errs ...ValidationError) Result {
	return Result{Success: false, Order: order, Errors: errs}
}

func succeed(order models.Order, warnings []string) Result {
	return Result{Success: true, Order: order, Warnings: warnings}
}

// FirstError returns the first error of a failed result.
func (r Result) FirstError() (ValidationError, bool) {
	if len(r.Errors) == 0 {
		return ValidationError{}, false
	}
	return r.Errors[0], true
}

// NewOrder creates the empty draft order a session starts with.
func (e *Engine) NewOrder(sessionID, storeID, laneID string) models.Order {
	now := e.Now()
	return models.Order{
		ID:        e.NewID(),
		SessionID: sessionID,
		StoreID:   storeID,
		LaneID:    laneID,
		Items:     []models.OrderItem{},
		Discounts: []models.OrderDiscount{},
		Currency:  Currency,
		Status:    models.OrderStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func findProduct(catalogue []models.Product, id string) (models.Product, bool) {
	for _, p := range catalogue {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func findRule(rules []models.MenuRule, menuProductID string) (models.MenuRule, bool) {
	for _, r := range rules {
		if r.MenuProductID == menuProductID {
			return r, true
		}
	}
	return models.MenuRule{}, false
}
