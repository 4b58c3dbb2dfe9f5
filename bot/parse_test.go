package bot

import (
	"reflect"
	"testing"

	"drive-thru/models"
	"drive-thru/services"
)

func intPtr(n int) *int { return &n }

func TestParseAdd(t *testing.T) {
	tests := []struct {
		in   string
		want addRequest
	}{
		{"coca", addRequest{Product: "coca"}},
		{"2 coca", addRequest{Quantity: intPtr(2), Product: "coca"}},
		{"3x frites", addRequest{Quantity: intPtr(3), Product: "frites"}},
		{"deux menu giant", addRequest{Quantity: intPtr(2), Product: "menu giant"}},
		{"grand coca", addRequest{Product: "coca", Size: models.SizeLarge}},
		{"menu giant en maxi", addRequest{Product: "menu giant", Size: models.SizeLarge}},
		{
			"2 menu giant grand avec rustiques, ice tea sans oignons",
			addRequest{Quantity: intPtr(2), Product: "menu giant", Size: models.SizeLarge, Extras: []string{"rustiques", "ice tea"}, Without: []string{"oignons"}},
		},
		{
			"giant sans oignons et salade",
			addRequest{Product: "giant", Without: []string{"oignons", "salade"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAdd(tt.in)
			if err != nil {
				t.Fatalf("parseAdd(%q) error: %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseAdd(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAdd_Empty(t *testing.T) {
	for _, in := range []string{"", "  ", "2", "grand", "avec frites"} {
		if _, err := parseAdd(in); err != errEmptyRequest {
			t.Errorf("parseAdd(%q) error = %v, want errEmptyRequest", in, err)
		}
	}
}

func TestComponentFor(t *testing.T) {
	products := services.SeedCatalogue().Products
	tests := []struct {
		name string
		want models.ComponentType
	}{
		{"rustiques", models.ComponentSide},
		{"ice tea", models.ComponentDrink},
		{"churros", models.ComponentDessert},
		{"bbq", models.ComponentSauce},
		{"zzzz", models.ComponentSauce},
	}
	for _, tt := range tests {
		if got := componentFor(tt.name, products); got != tt.want {
			t.Errorf("componentFor(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestAddRequestCommand(t *testing.T) {
	req := addRequest{Quantity: intPtr(2), Product: "menu giant", Size: models.SizeLarge, Extras: []string{"rustiques", "bbq"}, Without: []string{"oignons"}}
	cmd := req.command(services.SeedCatalogue().Products)

	if cmd.ProductName != "menu giant" || cmd.Size != models.SizeLarge || cmd.Quantity == nil || *cmd.Quantity != 2 {
		t.Errorf("command = %+v", cmd)
	}
	wantMods := []services.ModifierArg{
		{Type: models.ComponentSide, ProductName: "rustiques"},
		{Type: models.ComponentSauce, ProductName: "bbq"},
	}
	if !reflect.DeepEqual(cmd.Modifiers, wantMods) {
		t.Errorf("modifiers = %+v, want %+v", cmd.Modifiers, wantMods)
	}
	if len(cmd.Customizations) != 1 || cmd.Customizations[0].Type != models.CustomizationRemoveIngredient || cmd.Customizations[0].Ingredient != "oignons" {
		t.Errorf("customizations = %+v", cmd.Customizations)
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in, cmd, args string
	}{
		{"/start", "start", ""},
		{"/ADD 2 coca", "add", "2 coca"},
		{"/add@drivethru_bot  frites ", "add", "frites"},
		{"un menu giant", "", "un menu giant"},
		{"  /86 secret coca zero", "86", "secret coca zero"},
	}
	for _, tt := range tests {
		cmd, args := splitCommand(tt.in)
		if cmd != tt.cmd || args != tt.args {
			t.Errorf("splitCommand(%q) = %q, %q; want %q, %q", tt.in, cmd, args, tt.cmd, tt.args)
		}
	}
}

func TestSplitStaffArgs(t *testing.T) {
	pw, product, ok := splitStaffArgs("secret  menu giant")
	if !ok || pw != "secret" || product != "menu giant" {
		t.Errorf("splitStaffArgs = %q, %q, %v", pw, product, ok)
	}
	if _, _, ok := splitStaffArgs("secret"); ok {
		t.Error("expected missing product to fail")
	}
}
