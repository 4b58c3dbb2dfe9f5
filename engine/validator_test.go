package engine

import (
	"testing"

	"drive-thru/models"
)

func codes(r Report) []ErrorCode {
	out := make([]ErrorCode, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Code
	}
	return out
}

func hasCode(r Report, c ErrorCode) bool {
	for _, e := range r.Errors {
		if e.Code == c {
			return true
		}
	}
	return false
}

func TestValidate_CleanOrder(t *testing.T) {
	e := testEngine()
	o := baseOrder(t, e)
	o = e.ModifyItem(o, models.Modification{Type: models.ModChangeDrink, Item: models.IndexRef(0), Value: "ice tea"}, testCatalogue(), testRules()).Order
	o = e.ModifyItem(o, models.Modification{Type: models.ModAddSauce, Item: models.IndexRef(1), Value: "bbq"}, testCatalogue(), testRules()).Order

	r := Validate(o, testCatalogue(), testRules())
	if !r.Valid {
		t.Errorf("expected valid, got %v", codes(r))
	}
}

func TestValidate_Empty(t *testing.T) {
	e := testEngine()
	r := Validate(e.NewOrder("s1", "store-1", ""), testCatalogue(), testRules())
	if r.Valid || !hasCode(r, CodeEmptyOrder) {
		t.Errorf("codes = %v, want EMPTY_ORDER", codes(r))
	}
}

func TestValidate_Problems(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *models.Order, cat *[]models.Product)
		want   ErrorCode
		field  string
	}{
		{"product gone", func(o *models.Order, cat *[]models.Product) {
			o.Items[1].ProductID = "deleted"
		}, CodeProductNotInCatalogue, "items[1].productId"},
		{"product 86'd", func(o *models.Order, cat *[]models.Product) {
			*cat = withAvailability(*cat, "fries", false)
		}, CodeProductUnavailable, "items[2]"},
		{"quantity", func(o *models.Order, cat *[]models.Product) {
			o.Items[1].Qty = 12
			o.Items[1].LinePrice = 12 * o.Items[1].UnitPrice
			RecalculateTotals(o)
		}, CodeInvalidQuantity, "items[1].qty"},
		{"missing side", func(o *models.Order, cat *[]models.Product) {
			o.Items[0].Modifiers = o.Items[0].Modifiers[1:]
		}, CodeMissingMenuComponent, "items[0]"},
		{"two drinks", func(o *models.Order, cat *[]models.Product) {
			o.Items[0].Modifiers = append(o.Items[0].Modifiers, models.OrderItemModifier{Type: models.ComponentDrink, ProductID: "water", Name: "Eau Vittel"})
		}, CodeTooManyComponents, "items[0]"},
		{"forbidden drink", func(o *models.Order, cat *[]models.Product) {
			o.Items[0].Modifiers[1] = models.OrderItemModifier{Type: models.ComponentDrink, ProductID: "sprite", Name: "Sprite"}
		}, CodeProductNotAllowedInMenu, "items[0]"},
		{"price drift", func(o *models.Order, cat *[]models.Product) {
			o.Items[2].UnitPrice = 300
			o.Items[2].LinePrice = 300
			RecalculateTotals(o)
		}, CodePriceMismatch, "items[2].linePrice"},
		{"total drift", func(o *models.Order, cat *[]models.Product) {
			o.Total += 5
		}, CodeTotalMismatch, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine()
			o := baseOrder(t, e).Clone()
			for i := range o.Items {
				o.Items[i].Modifiers = append([]models.OrderItemModifier(nil), o.Items[i].Modifiers...)
			}
			cat := testCatalogue()
			tt.mutate(&o, &cat)

			r := Validate(o, cat, testRules())
			if r.Valid {
				t.Fatal("expected invalid")
			}
			var found *ValidationError
			for i := range r.Errors {
				if r.Errors[i].Code == tt.want {
					found = &r.Errors[i]
					break
				}
			}
			if found == nil {
				t.Fatalf("codes = %v, want %s", codes(r), tt.want)
			}
			if found.Field != tt.field {
				t.Errorf("field = %q, want %q", found.Field, tt.field)
			}
		})
	}
}

func TestValidate_Tolerance(t *testing.T) {
	e := testEngine()
	o := baseOrder(t, e)
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.Items[2].LinePrice++
	o.Total++
	o.Subtotal++
	if r := Validate(o, testCatalogue(), testRules()); !r.Valid {
		t.Errorf("one cent drift should be tolerated, got %v", codes(r))
	}
}

func TestValidate_CollectsEverything(t *testing.T) {
	e := testEngine()
	o := baseOrder(t, e)
	o.Items = append([]models.OrderItem(nil), o.Items...)
	o.Items[0].ProductID = "deleted"
	o.Items[1].Qty = 0
	o.Total = 999999

	r := Validate(o, testCatalogue(), testRules())
	for _, c := range []ErrorCode{CodeProductNotInCatalogue, CodeInvalidQuantity, CodePriceMismatch, CodeTotalMismatch, CodeOrderTotalExceeded} {
		if !hasCode(r, c) {
			t.Errorf("missing %s in %v", c, codes(r))
		}
	}
}

func TestValidate_TooManyItems(t *testing.T) {
	e := testEngine()
	o := e.NewOrder("s1", "store-1", "")
	line := models.OrderItem{ProductID: "sauce-mayo", Name: "Sauce Mayonnaise", Category: models.CategorySauce, Qty: 1, UnitPrice: 50, LinePrice: 50, Modifiers: []models.OrderItemModifier{}}
	for i := 0; i <= MaxItemsPerOrder; i++ {
		o.Items = append(o.Items, line)
	}
	RecalculateTotals(&o)
	r := Validate(o, testCatalogue(), testRules())
	if !hasCode(r, CodeTooManyItems) || len(r.Errors) != 1 {
		t.Errorf("codes = %v, want only TOO_MANY_ITEMS", codes(r))
	}
}
