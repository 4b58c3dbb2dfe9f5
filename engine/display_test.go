package engine

import (
	"testing"

	"drive-thru/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0,00€"},
		{5, "0,05€"},
		{950, "9,50€"},
		{1030, "10,30€"},
		{50000, "500,00€"},
		{-80, "-0,80€"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.cents); got != tt.want {
			t.Errorf("FormatPrice(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestToDisplay(t *testing.T) {
	e := testEngine()
	o := baseOrder(t, e)
	o = e.ModifyItem(o, models.Modification{Type: models.ModChangeDrink, Item: models.IndexRef(0), Value: "ice tea"}, testCatalogue(), testRules()).Order

	d := ToDisplay(o)
	if d.ItemCount != 4 {
		t.Errorf("itemCount = %d, want 4", d.ItemCount)
	}
	if len(d.Items) != 3 {
		t.Fatalf("got %d items", len(d.Items))
	}
	menu := d.Items[0]
	if menu.Price != "10,00€" || len(menu.Modifiers) != 2 {
		t.Errorf("menu line = %+v", menu)
	}
	if menu.Modifiers[0].ExtraPrice != "" {
		t.Errorf("included side shows a price: %q", menu.Modifiers[0].ExtraPrice)
	}
	if menu.Modifiers[1].ExtraPrice != "0,50€" {
		t.Errorf("upgrade extra = %q, want 0,50€", menu.Modifiers[1].ExtraPrice)
	}
	if d.Subtotal != "23,20€" || d.Total != "23,20€" {
		t.Errorf("subtotal=%s total=%s", d.Subtotal, d.Total)
	}
}

func TestSummary(t *testing.T) {
	e := testEngine()
	if got := Summary(e.NewOrder("s1", "store-1", ""), SummaryShort); got != "Votre commande est vide." {
		t.Errorf("empty summary = %q", got)
	}

	o := e.NewOrder("s1", "store-1", "")
	o = addOK(t, e, o, models.ParsedOrderItem{ProductName: "Menu Giant", Quantity: 1, Size: models.SizeLarge})
	o = addOK(t, e, o, models.ParsedOrderItem{ProductName: "Coca", Quantity: 2})

	short := Summary(o, SummaryShort)
	if want := "Menu Giant, 2 Coca, total 15,30€."; short != want {
		t.Errorf("short = %q, want %q", short, want)
	}
	full := Summary(o, SummaryFull)
	if want := "Menu Giant grand avec Frites, Coca-Cola, 2 Coca-Cola. Total 15,30€."; full != want {
		t.Errorf("full = %q, want %q", full, want)
	}
}
