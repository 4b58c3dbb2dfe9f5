package engine

import "fmt"

// ErrorCode is the stable identifier callers switch on.
type ErrorCode string

const (
	CodeProductNotFound          ErrorCode = "PRODUCT_NOT_FOUND"
	CodeProductUnavailable       ErrorCode = "PRODUCT_UNAVAILABLE"
	CodeInvalidQuantity          ErrorCode = "INVALID_QUANTITY"
	CodeOrderTooLarge            ErrorCode = "ORDER_TOO_LARGE"
	CodeOrderTotalExceeded       ErrorCode = "ORDER_TOTAL_EXCEEDED"
	CodeItemNotFound             ErrorCode = "ITEM_NOT_FOUND"
	CodeSizeNotAvailable         ErrorCode = "SIZE_NOT_AVAILABLE"
	CodeInvalidSize              ErrorCode = "INVALID_SIZE"
	CodeNotAMenu                 ErrorCode = "NOT_A_MENU"
	CodeModifierNotFound         ErrorCode = "MODIFIER_NOT_FOUND"
	CodeProductNotAllowed        ErrorCode = "PRODUCT_NOT_ALLOWED"
	CodeSauceNotFound            ErrorCode = "SAUCE_NOT_FOUND"
	CodeSauceAlreadyAdded        ErrorCode = "SAUCE_ALREADY_ADDED"
	CodeUnknownModification      ErrorCode = "UNKNOWN_MODIFICATION"
	CodeEmptyOrder               ErrorCode = "EMPTY_ORDER"
	CodeProductNotInCatalogue    ErrorCode = "PRODUCT_NOT_IN_CATALOGUE"
	CodeMissingMenuComponent     ErrorCode = "MISSING_MENU_COMPONENT"
	CodeTooManyComponents        ErrorCode = "TOO_MANY_COMPONENTS"
	CodeProductNotAllowedInMenu  ErrorCode = "PRODUCT_NOT_ALLOWED_IN_MENU"
	CodePriceMismatch            ErrorCode = "PRICE_MISMATCH"
	CodeTotalMismatch            ErrorCode = "TOTAL_MISMATCH"
	CodeTooManyItems             ErrorCode = "TOO_MANY_ITEMS"
)

// Action tells the conversational layer what to do next.
type Action string

const (
	ActionNone               Action = ""
	ActionAskClarification   Action = "ask_clarification"
	ActionProposeAlternative Action = "propose_alternative"
	ActionRemoveItem         Action = "remove_item"
	ActionTransferHuman      Action = "transfer_human"
)

// ValidationError is a domain failure. Message is for logs, CustomerMessage
// is French and safe to speak to the customer.
type ValidationError struct {
	Code            ErrorCode      `json:"code"`
	Message         string         `json:"message"`
	CustomerMessage string         `json:"customerMessage"`
	Field           string         `json:"field,omitempty"`
	Recoverable     bool           `json:"recoverable"`
	Suggestion      string         `json:"suggestion,omitempty"`
	SuggestedAction Action         `json:"suggestedAction,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func itemNotFound(ref string) ValidationError {
	msg := "Je ne trouve pas cet article dans votre commande."
	if ref != "" {
		msg = fmt.Sprintf("Je ne trouve pas \"%s\" dans votre commande.", ref)
	}
	return ValidationError{
		Code:            CodeItemNotFound,
		Message:         "item not found in order: " + ref,
		CustomerMessage: msg,
		Recoverable:     true,
		SuggestedAction: ActionAskClarification,
	}
}

func invalidQuantity(qty int) ValidationError {
	return ValidationError{
		Code:            CodeInvalidQuantity,
		Message:         fmt.Sprintf("invalid quantity: %d", qty),
		CustomerMessage: fmt.Sprintf("La quantité doit être entre %d et %d.", MinQuantity, MaxQuantityPerItem),
		Recoverable:     true,
		SuggestedAction: ActionAskClarification,
	}
}

func sauceNotFound(name string) ValidationError {
	return ValidationError{
		Code:            CodeSauceNotFound,
		Message:         "sauce not found: " + name,
		CustomerMessage: fmt.Sprintf("Je ne trouve pas la sauce \"%s\".", name),
		Recoverable:     true,
		SuggestedAction: ActionAskClarification,
	}
}

func sauceAlreadyAdded(name string) ValidationError {
	return ValidationError{
		Code:            CodeSauceAlreadyAdded,
		Message:         "sauce already on item: " + name,
		CustomerMessage: fmt.Sprintf("La sauce %s est déjà dans votre commande.", name),
		Recoverable:     false,
	}
}
