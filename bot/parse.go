package bot

import (
	"errors"
	"strconv"
	"strings"

	"drive-thru/engine"
	"drive-thru/models"
	"drive-thru/services"
)

var errEmptyRequest = errors.New("empty request")

// addRequest is a free-text order line such as
// "2 menu giant grand avec rustiques, ice tea sans oignons".
type addRequest struct {
	Quantity *int
	Product  string
	Size     models.Size
	Extras   []string
	Without  []string
}

var numberWords = map[string]int{
	"un": 1, "une": 1, "deux": 2, "trois": 3, "quatre": 4, "cinq": 5,
	"six": 6, "sept": 7, "huit": 8, "neuf": 9, "dix": 10,
}

var sizeWords = map[string]models.Size{
	"petit": models.SizeSmall, "petite": models.SizeSmall, "small": models.SizeSmall,
	"moyen": models.SizeMedium, "moyenne": models.SizeMedium, "normal": models.SizeMedium, "medium": models.SizeMedium,
	"grand": models.SizeLarge, "grande": models.SizeLarge, "maxi": models.SizeLarge, "large": models.SizeLarge,
}

func parseQuantity(word string) (int, bool) {
	if n, err := strconv.Atoi(word); err == nil {
		return n, true
	}
	if strings.HasSuffix(word, "x") {
		if n, err := strconv.Atoi(strings.TrimSuffix(word, "x")); err == nil {
			return n, true
		}
	}
	n, ok := numberWords[word]
	return n, ok
}

func parseAdd(text string) (addRequest, error) {
	var req addRequest
	words := strings.Fields(strings.ReplaceAll(text, ",", " , "))

	const (
		modeMain = iota
		modeExtras
		modeWithout
	)
	mode := modeMain
	var main, current []string
	flush := func() {
		if len(current) == 0 {
			return
		}
		item := strings.Join(current, " ")
		switch mode {
		case modeExtras:
			req.Extras = append(req.Extras, item)
		case modeWithout:
			req.Without = append(req.Without, item)
		}
		current = nil
	}

	for i, w := range words {
		lw := strings.ToLower(w)
		switch {
		case lw == "avec":
			flush()
			mode = modeExtras
		case lw == "sans":
			flush()
			mode = modeWithout
		case mode != modeMain && (lw == "," || lw == "et"):
			flush()
		case mode != modeMain:
			current = append(current, w)
		case lw == ",":
		default:
			if i == 0 {
				if n, ok := parseQuantity(lw); ok {
					req.Quantity = &n
					continue
				}
			}
			if lw == "en" && i+1 < len(words) && sizeWords[strings.ToLower(words[i+1])] != "" {
				continue
			}
			if size, ok := sizeWords[lw]; ok {
				req.Size = size
				continue
			}
			main = append(main, w)
		}
	}
	flush()

	req.Product = strings.Join(main, " ")
	if req.Product == "" {
		return req, errEmptyRequest
	}
	return req, nil
}

// componentFor guesses the menu slot an extra belongs to from the product
// it names. Unknown names are treated as sauces.
func componentFor(name string, catalogue []models.Product) models.ComponentType {
	p, ok := engine.ResolveAny(name, catalogue)
	if !ok {
		return models.ComponentSauce
	}
	switch p.Category {
	case models.CategorySide:
		return models.ComponentSide
	case models.CategoryDrink:
		return models.ComponentDrink
	case models.CategoryDessert:
		return models.ComponentDessert
	default:
		return models.ComponentSauce
	}
}

func (r addRequest) command(catalogue []models.Product) services.AddItemCommand {
	cmd := services.AddItemCommand{
		ProductName: r.Product,
		Quantity:    r.Quantity,
		Size:        r.Size,
	}
	for _, e := range r.Extras {
		cmd.Modifiers = append(cmd.Modifiers, services.ModifierArg{Type: componentFor(e, catalogue), ProductName: e})
	}
	for _, w := range r.Without {
		cmd.Customizations = append(cmd.Customizations, services.CustomizationArg{Type: models.CustomizationRemoveIngredient, Ingredient: w})
	}
	return cmd
}

// splitStaffArgs splits "/86 <password> <product...>".
func splitStaffArgs(args string) (password, product string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}

// splitCommand returns the command without its leading slash or @botname,
// and the rest of the text. Plain text has an empty command.
func splitCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest, _ := strings.Cut(text, " ")
	head = strings.TrimPrefix(head, "/")
	if at := strings.Index(head, "@"); at >= 0 {
		head = head[:at]
	}
	return strings.ToLower(head), strings.TrimSpace(rest)
}
