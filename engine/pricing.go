package engine

import "drive-thru/models"

// roundDiv divides and rounds half away from zero.
func roundDiv(num, den int64) int64 {
	if den == 0 {
		return 0
	}
	if (num < 0) != (den < 0) {
		return -((abs(num) + abs(den)/2) / abs(den))
	}
	return (abs(num) + abs(den)/2) / abs(den)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// RecalculateTotals rewrites subtotal, discount amounts, tax and total on o.
// It must only be called on a staging copy the caller owns; the discount
// slice is replaced, not written through.
func RecalculateTotals(o *models.Order) {
	var subtotal int64
	for _, it := range o.Items {
		subtotal += it.LinePrice
	}
	o.Subtotal = subtotal

	discounts := make([]models.OrderDiscount, len(o.Discounts))
	var applied int64
	for i, d := range o.Discounts {
		d.AppliedAmount = discountAmount(d, subtotal, applied)
		applied += d.AppliedAmount
		discounts[i] = d
	}
	o.Discounts = discounts

	net := subtotal - applied
	o.Tax = roundDiv(net*TaxRatePerMille, 1000)
	// prices are VAT-inclusive, tax is only reported
	o.Total = net
}

// discountAmount never lets the running discount exceed the subtotal.
func discountAmount(d models.OrderDiscount, subtotal, alreadyApplied int64) int64 {
	var amount int64
	switch d.Type {
	case models.DiscountPercentage:
		amount = roundDiv(subtotal*d.Value, 100)
	case models.DiscountFixed:
		amount = d.Value
	}
	if remaining := subtotal - alreadyApplied; amount > remaining {
		amount = remaining
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// ExpectedItemPrice re-derives a line price from the catalogue product and
// what is recorded on the line, ignoring the unit price the mutators wrote.
func ExpectedItemPrice(item models.OrderItem, product models.Product) int64 {
	unit := product.BasePrice
	if item.Size != "" {
		if opt, ok := product.SizeOption(item.Size); ok {
			unit += opt.PriceModifier
		}
	}
	for _, m := range item.Modifiers {
		unit += m.ExtraPrice
	}
	for _, c := range item.Customizations {
		unit += c.ExtraPrice
	}
	return unit * int64(item.Qty)
}

// ExpectedTotal recomputes the order total from its lines and discount
// definitions.
func ExpectedTotal(o models.Order) int64 {
	var subtotal int64
	for _, it := range o.Items {
		subtotal += it.LinePrice
	}
	var applied int64
	for _, d := range o.Discounts {
		applied += discountAmount(d, subtotal, applied)
	}
	return subtotal - applied
}
