package engine

import (
	"fmt"
	"strings"

	"drive-thru/models"

	"github.com/shopspring/decimal"
)

// FormatPrice renders minor units as French euros, e.g. 950 -> "9,50€".
func FormatPrice(cents int64) string {
	return strings.Replace(decimal.New(cents, -2).StringFixed(2), ".", ",", 1) + "€"
}

type DisplayModifier struct {
	Name       string `json:"name"`
	ExtraPrice string `json:"extraPrice,omitempty"`
}

type DisplayItem struct {
	Name      string            `json:"name"`
	ProductID string            `json:"productId"`
	Quantity  int               `json:"quantity"`
	Size      models.Size       `json:"size,omitempty"`
	Modifiers []DisplayModifier `json:"modifiers"`
	Price     string            `json:"price"`
}

type DisplayDiscount struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// DisplayOrder is the screen projection of an order. Money is preformatted.
type DisplayOrder struct {
	Items     []DisplayItem     `json:"items"`
	Subtotal  string            `json:"subtotal"`
	Discounts []DisplayDiscount `json:"discounts"`
	Tax       string            `json:"tax"`
	Total     string            `json:"total"`
	ItemCount int               `json:"itemCount"`
}

func ToDisplay(o models.Order) DisplayOrder {
	d := DisplayOrder{
		Items:     make([]DisplayItem, 0, len(o.Items)),
		Subtotal:  FormatPrice(o.Subtotal),
		Discounts: make([]DisplayDiscount, 0, len(o.Discounts)),
		Tax:       FormatPrice(o.Tax),
		Total:     FormatPrice(o.Total),
		ItemCount: o.ItemCount(),
	}
	for _, it := range o.Items {
		mods := make([]DisplayModifier, 0, len(it.Modifiers))
		for _, m := range it.Modifiers {
			dm := DisplayModifier{Name: m.Name}
			if m.ExtraPrice > 0 {
				dm.ExtraPrice = FormatPrice(m.ExtraPrice)
			}
			mods = append(mods, dm)
		}
		d.Items = append(d.Items, DisplayItem{
			Name:      it.Name,
			ProductID: it.ProductID,
			Quantity:  it.Qty,
			Size:      it.Size,
			Modifiers: mods,
			Price:     FormatPrice(it.LinePrice),
		})
	}
	for _, disc := range o.Discounts {
		d.Discounts = append(d.Discounts, DisplayDiscount{
			Description: disc.Description,
			Amount:      FormatPrice(disc.AppliedAmount),
		})
	}
	return d
}

type SummaryFormat string

const (
	SummaryShort SummaryFormat = "short"
	SummaryFull  SummaryFormat = "full"
)

var sizeWords = map[models.Size]string{
	models.SizeSmall:  "petit",
	models.SizeMedium: "moyen",
	models.SizeLarge:  "grand",
}

// Summary is the sentence read back to the customer.
func Summary(o models.Order, format SummaryFormat) string {
	if len(o.Items) == 0 {
		return "Votre commande est vide."
	}

	parts := make([]string, 0, len(o.Items))
	if format == SummaryShort {
		for _, it := range o.Items {
			name := it.ShortName
			if name == "" {
				name = it.Name
			}
			if it.Qty > 1 {
				name = fmt.Sprintf("%d %s", it.Qty, name)
			}
			parts = append(parts, name)
		}
		return fmt.Sprintf("%s, total %s.", strings.Join(parts, ", "), FormatPrice(o.Total))
	}

	for _, it := range o.Items {
		line := it.Name
		if it.Qty > 1 {
			line = fmt.Sprintf("%d %s", it.Qty, it.Name)
		}
		if w, ok := sizeWords[it.Size]; ok {
			line += " " + w
		}
		if it.Category == models.CategoryMenu && len(it.Modifiers) > 0 {
			names := make([]string, len(it.Modifiers))
			for i, m := range it.Modifiers {
				names[i] = m.Name
			}
			line += " avec " + strings.Join(names, ", ")
		}
		parts = append(parts, line)
	}
	return fmt.Sprintf("%s. Total %s.", strings.Join(parts, ", "), FormatPrice(o.Total))
}
