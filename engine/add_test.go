package engine

import (
	"testing"

	"drive-thru/models"
)

func addOK(t *testing.T, e *Engine, o models.Order, p models.ParsedOrderItem) models.Order {
	t.Helper()
	res := e.AddItem(o, p, testCatalogue(), testRules())
	if !res.Success {
		t.Fatalf("AddItem(%+v) failed: %v", p, res.Errors)
	}
	checkTotals(t, res.Order)
	return res.Order
}

func wantCode(t *testing.T, res Result, code ErrorCode) ValidationError {
	t.Helper()
	if res.Success {
		t.Fatalf("expected %s, got success", code)
	}
	verr, _ := res.FirstError()
	if verr.Code != code {
		t.Fatalf("error code = %s, want %s", verr.Code, code)
	}
	return verr
}

func TestAddItem_SimpleProduct(t *testing.T) {
	e := testEngine()
	o := addOK(t, e, e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Giant", Quantity: 1})

	if len(o.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(o.Items))
	}
	it := o.Items[0]
	if it.ProductID != "giant-burger" || it.UnitPrice != 520 || it.LinePrice != 520 {
		t.Errorf("item = %s unit=%d line=%d, want giant-burger 520/520", it.ProductID, it.UnitPrice, it.LinePrice)
	}
	if o.Subtotal != 520 || o.Total != 520 {
		t.Errorf("subtotal=%d total=%d, want 520", o.Subtotal, o.Total)
	}
	if o.Tax != 29 { // 520 * 5.5% = 28.6
		t.Errorf("tax = %d, want 29", o.Tax)
	}
}

func TestAddItem_MenuDefaults(t *testing.T) {
	e := testEngine()
	o := addOK(t, e, e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Menu Giant", Quantity: 1})

	it := o.Items[0]
	if it.UnitPrice != 950 || it.LinePrice != 950 {
		t.Errorf("unit=%d line=%d, want 950", it.UnitPrice, it.LinePrice)
	}
	if len(it.Modifiers) != 2 {
		t.Fatalf("got %d modifiers, want 2 (optional dessert skipped)", len(it.Modifiers))
	}
	want := []struct {
		typ models.ComponentType
		id  string
	}{
		{models.ComponentSide, "fries"},
		{models.ComponentDrink, "coca"},
	}
	for i, w := range want {
		m := it.Modifiers[i]
		if m.Type != w.typ || m.ProductID != w.id || m.ExtraPrice != 0 {
			t.Errorf("modifiers[%d] = %s/%s +%d, want %s/%s +0", i, m.Type, m.ProductID, m.ExtraPrice, w.typ, w.id)
		}
	}
}

func TestAddItem_MenuLargeSize(t *testing.T) {
	e := testEngine()
	o := addOK(t, e, e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Menu Giant", Quantity: 1, Size: models.SizeLarge})
	if got := o.Items[0].UnitPrice; got != 1030 {
		t.Errorf("unitPrice = %d, want 1030", got)
	}
	if o.Items[0].Size != models.SizeLarge {
		t.Errorf("size = %q, want large", o.Items[0].Size)
	}
}

func TestAddItem_UnknownSizeIgnored(t *testing.T) {
	e := testEngine()
	o := addOK(t, e, e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Giant", Quantity: 1, Size: models.SizeLarge})
	if o.Items[0].UnitPrice != 520 || o.Items[0].Size != "" {
		t.Errorf("unit=%d size=%q, want 520 and no size", o.Items[0].UnitPrice, o.Items[0].Size)
	}
}

func TestAddItem_MenuComponents(t *testing.T) {
	tests := []struct {
		name      string
		modifiers []models.ParsedModifier
		wantUnit  int64
		wantWarn  bool
		wantCode  ErrorCode
	}{
		{"included choice", []models.ParsedModifier{{Type: models.ComponentSide, ProductName: "potatoes"}, {Type: models.ComponentDrink, ProductName: "eau"}}, 950, false, ""},
		{"upgrade", []models.ParsedModifier{{Type: models.ComponentDrink, ProductName: "ice tea"}}, 1000, true, ""},
		{"optional dessert", []models.ParsedModifier{{Type: models.ComponentDessert, ProductName: "fondant"}}, 950, false, ""},
		{"not allowed", []models.ParsedModifier{{Type: models.ComponentDrink, ProductName: "sprite"}}, 0, false, CodeProductNotAllowed},
		{"unknown drink", []models.ParsedModifier{{Type: models.ComponentDrink, ProductName: "xyz"}}, 0, false, CodeModifierNotFound},
		{"two drinks", []models.ParsedModifier{{Type: models.ComponentDrink, ProductName: "coca"}, {Type: models.ComponentDrink, ProductName: "eau"}}, 0, false, CodeTooManyComponents},
		{"extra sauce", []models.ParsedModifier{{Type: models.ComponentSauce, ProductName: "bbq"}}, 1000, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine()
			empty := e.NewOrder("s1", "store-1", "")
			res := e.AddItem(empty, models.ParsedOrderItem{ProductName: "Menu Giant", Quantity: 1, Modifiers: tt.modifiers}, testCatalogue(), testRules())
			if tt.wantCode != "" {
				wantCode(t, res, tt.wantCode)
				if len(res.Order.Items) != 0 {
					t.Error("failed add must return the input order")
				}
				return
			}
			if !res.Success {
				t.Fatalf("unexpected errors: %v", res.Errors)
			}
			checkTotals(t, res.Order)
			if got := res.Order.Items[0].UnitPrice; got != tt.wantUnit {
				t.Errorf("unitPrice = %d, want %d", got, tt.wantUnit)
			}
			if (len(res.Warnings) > 0) != tt.wantWarn {
				t.Errorf("warnings = %v, want present=%v", res.Warnings, tt.wantWarn)
			}
		})
	}
}

func TestAddItem_NotAllowedListsChoices(t *testing.T) {
	e := testEngine()
	res := e.AddItem(e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{
		ProductName: "Menu Giant", Quantity: 1,
		Modifiers: []models.ParsedModifier{{Type: models.ComponentDrink, ProductName: "sprite"}},
	}, testCatalogue(), testRules())
	verr := wantCode(t, res, CodeProductNotAllowed)
	allowed, _ := verr.Details["allowed"].([]string)
	if len(allowed) != 3 || allowed[0] != "Coca-Cola" {
		t.Errorf("allowed = %v", allowed)
	}
	if verr.SuggestedAction != ActionProposeAlternative {
		t.Errorf("action = %s", verr.SuggestedAction)
	}
}

func TestAddItem_DefaultOutOfStock(t *testing.T) {
	e := testEngine()
	cat := withAvailability(testCatalogue(), "fries", false)
	res := e.AddItem(e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Menu Giant", Quantity: 1}, cat, testRules())
	if !res.Success {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if got := res.Order.Items[0].Modifiers[0].ProductID; got != "rustiques" {
		t.Errorf("side = %s, want rustiques", got)
	}

	cat = withAvailability(cat, "rustiques", false)
	res = e.AddItem(e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Menu Giant", Quantity: 1}, cat, testRules())
	wantCode(t, res, CodeMissingMenuComponent)
}

func TestAddItem_Quantity(t *testing.T) {
	tests := []struct {
		qty int
		ok  bool
	}{
		{-1, false},
		{0, false},
		{1, true},
		{5, true},
		{10, true},
		{11, false},
	}
	for _, tt := range tests {
		e := testEngine()
		res := e.AddItem(e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Giant", Quantity: tt.qty}, testCatalogue(), testRules())
		if res.Success != tt.ok {
			t.Errorf("qty %d: success = %v, want %v (%v)", tt.qty, res.Success, tt.ok, res.Errors)
			continue
		}
		if !tt.ok {
			wantCode(t, res, CodeInvalidQuantity)
			continue
		}
		if got := res.Order.Items[0].LinePrice; got != 520*int64(tt.qty) {
			t.Errorf("qty %d: linePrice = %d", tt.qty, got)
		}
	}
}

func TestAddItem_MaxLines(t *testing.T) {
	e := testEngine()
	o := e.NewOrder("s1", "store-1", "")
	for i := 0; i < MaxItemsPerOrder; i++ {
		o = addOK(t, e, o, models.ParsedOrderItem{ProductName: "Giant", Quantity: 1})
	}
	if len(o.Items) != MaxItemsPerOrder {
		t.Fatalf("got %d lines, want %d", len(o.Items), MaxItemsPerOrder)
	}
	res := e.AddItem(o, models.ParsedOrderItem{ProductName: "Giant", Quantity: 1}, testCatalogue(), testRules())
	verr := wantCode(t, res, CodeOrderTooLarge)
	if verr.Recoverable || verr.SuggestedAction != ActionTransferHuman {
		t.Errorf("ORDER_TOO_LARGE should hand off: %+v", verr)
	}
	if len(res.Order.Items) != MaxItemsPerOrder {
		t.Error("failed add changed the order")
	}
}

func TestAddItem_TotalCap(t *testing.T) {
	e := testEngine()
	o := e.NewOrder("s1", "store-1", "")
	big := models.ParsedOrderItem{ProductName: "Menu Giant", Quantity: 10, Size: models.SizeLarge}
	for i := 0; i < 4; i++ {
		o = addOK(t, e, o, big)
	}
	if o.Total != 41200 {
		t.Fatalf("total = %d, want 41200", o.Total)
	}
	res := e.AddItem(o, big, testCatalogue(), testRules())
	wantCode(t, res, CodeOrderTotalExceeded)
	if res.Order.Total != 41200 || len(res.Order.Items) != 4 {
		t.Error("failed add changed the order")
	}
}

func TestAddItem_NotFound(t *testing.T) {
	e := testEngine()
	res := e.AddItem(e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "pizza quatre fromages", Quantity: 1}, testCatalogue(), testRules())
	verr := wantCode(t, res, CodeProductNotFound)
	if verr.Recoverable || verr.SuggestedAction != ActionAskClarification {
		t.Errorf("PRODUCT_NOT_FOUND = %+v", verr)
	}
}

func TestAddItem_Unavailable(t *testing.T) {
	e := testEngine()
	cat := withAvailability(testCatalogue(), "long-chicken", false)
	res := e.AddItem(e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Long Chicken", Quantity: 1}, cat, testRules())
	verr := wantCode(t, res, CodeProductUnavailable)
	alts, _ := verr.Details["alternatives"].([]string)
	if len(alts) != 1 || alts[0] != "Giant" {
		t.Errorf("alternatives = %v, want [Giant]", alts)
	}
	if verr.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}

func TestAddItem_Sauces(t *testing.T) {
	tests := []struct {
		name     string
		sauces   []string
		wantUnit int64
		wantCode ErrorCode
	}{
		{"one", []string{"bbq"}, 570, ""},
		{"two", []string{"bbq", "mayo"}, 620, ""},
		{"duplicate", []string{"bbq", "barbecue"}, 0, CodeSauceAlreadyAdded},
		{"unknown", []string{"xyz"}, 0, CodeSauceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mods []models.ParsedModifier
			for _, s := range tt.sauces {
				mods = append(mods, models.ParsedModifier{Type: models.ComponentSauce, ProductName: s})
			}
			e := testEngine()
			res := e.AddItem(e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Giant", Quantity: 2, Modifiers: mods}, testCatalogue(), testRules())
			if tt.wantCode != "" {
				wantCode(t, res, tt.wantCode)
				return
			}
			if !res.Success {
				t.Fatalf("unexpected errors: %v", res.Errors)
			}
			it := res.Order.Items[0]
			if it.UnitPrice != tt.wantUnit || it.LinePrice != 2*tt.wantUnit {
				t.Errorf("unit=%d line=%d, want %d/%d", it.UnitPrice, it.LinePrice, tt.wantUnit, 2*tt.wantUnit)
			}
		})
	}
}

func TestAddItem_SaucesOnMenuWithoutRule(t *testing.T) {
	e := testEngine()
	item := models.ParsedOrderItem{
		ProductName: "menu giant",
		Quantity:    1,
		Modifiers:   []models.ParsedModifier{{Type: models.ComponentSauce, ProductName: "bbq"}},
	}
	res := e.AddItem(e.NewOrder("s1", "store-1", ""), item, testCatalogue(), nil)
	if !res.Success {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	it := res.Order.Items[0]
	if it.UnitPrice != 1000 || len(it.Modifiers) != 1 || it.Modifiers[0].ProductID != "sauce-bbq" {
		t.Errorf("item = %+v, want sauce-bbq charged at 1000", it)
	}
	checkTotals(t, res.Order)
}

func TestAddItem_Customizations(t *testing.T) {
	e := testEngine()
	o := addOK(t, e, e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{
		ProductName: "Giant", Quantity: 1,
		Customizations: []models.ParsedCustomization{
			{Type: models.CustomizationRemoveIngredient, Ingredient: "oignons"},
			{Type: "swap", Ingredient: "pain"},
		},
	})
	cs := o.Items[0].Customizations
	if len(cs) != 1 || cs[0].Ingredient != "oignons" || cs[0].ExtraPrice != 0 {
		t.Errorf("customizations = %+v", cs)
	}
	if o.Items[0].UnitPrice != 520 {
		t.Errorf("unitPrice = %d", o.Items[0].UnitPrice)
	}
}

func TestAddItem_DoesNotAliasInput(t *testing.T) {
	e := testEngine()
	o1 := addOK(t, e, e.NewOrder("s1", "store-1", ""), models.ParsedOrderItem{ProductName: "Giant", Quantity: 1})
	o2 := addOK(t, e, o1, models.ParsedOrderItem{ProductName: "Frites", Quantity: 1})
	if len(o1.Items) != 1 || o1.Subtotal != 520 {
		t.Errorf("previous snapshot changed: %d items, subtotal %d", len(o1.Items), o1.Subtotal)
	}
	if len(o2.Items) != 2 || o2.Subtotal != 800 {
		t.Errorf("new order: %d items, subtotal %d", len(o2.Items), o2.Subtotal)
	}
}
