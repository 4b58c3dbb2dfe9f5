package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"drive-thru/models"

	"github.com/go-playground/validator/v10"
)

const (
	CommandAddItem     = "add_item"
	CommandRemoveItem  = "remove_item"
	CommandConfirm     = "confirm_order"
	CommandCancelOrder = "cancel_order"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidCommand = errors.New("invalid command")
)

// Command is one tool call from the conversational layer.
type Command interface {
	Name() string
}

type ModifierArg struct {
	Type        models.ComponentType `json:"type" validate:"required,oneof=side drink dessert sauce"`
	ProductName string               `json:"productName" validate:"required,max=100"`
}

type CustomizationArg struct {
	Type       models.CustomizationType `json:"type" validate:"required,oneof=remove_ingredient add_ingredient"`
	Ingredient string                   `json:"ingredient" validate:"required,max=100"`
}

type AddItemCommand struct {
	ProductName string `json:"productName" validate:"required,max=100"`
	// nil when the caller did not say how many
	Quantity       *int               `json:"quantity,omitempty"`
	Size           models.Size        `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	Modifiers      []ModifierArg      `json:"modifiers,omitempty" validate:"max=10,dive"`
	Customizations []CustomizationArg `json:"customizations,omitempty" validate:"max=10,dive"`
}

func (AddItemCommand) Name() string { return CommandAddItem }

// Parsed converts the command to engine input. A missing quantity means one.
func (c AddItemCommand) Parsed() models.ParsedOrderItem {
	qty := 1
	if c.Quantity != nil {
		qty = *c.Quantity
	}
	p := models.ParsedOrderItem{
		ProductName: c.ProductName,
		Quantity:    qty,
		Size:        c.Size,
	}
	for _, m := range c.Modifiers {
		p.Modifiers = append(p.Modifiers, models.ParsedModifier{Type: m.Type, ProductName: m.ProductName})
	}
	for _, cu := range c.Customizations {
		p.Customizations = append(p.Customizations, models.ParsedCustomization{Type: cu.Type, Ingredient: cu.Ingredient})
	}
	return p
}

type RemoveItemCommand struct {
	ProductName string `json:"productName" validate:"required,max=100"`
}

func (RemoveItemCommand) Name() string { return CommandRemoveItem }

type ConfirmOrderCommand struct{}

func (ConfirmOrderCommand) Name() string { return CommandConfirm }

type CancelOrderCommand struct {
	Reason string `json:"reason,omitempty" validate:"max=200"`
}

func (CancelOrderCommand) Name() string { return CommandCancelOrder }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeCommand parses and validates the JSON arguments of a tool call.
// Empty arguments are read as {}.
func DecodeCommand(name string, args []byte) (Command, error) {
	var cmd Command
	switch name {
	case CommandAddItem:
		cmd = &AddItemCommand{}
	case CommandRemoveItem:
		cmd = &RemoveItemCommand{}
	case CommandConfirm:
		cmd = &ConfirmOrderCommand{}
	case CommandCancelOrder:
		cmd = &CancelOrderCommand{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	if len(bytes.TrimSpace(args)) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, cmd); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCommand, name, err)
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidCommand, name, describeValidation(err))
	}

	switch c := cmd.(type) {
	case *AddItemCommand:
		return *c, nil
	case *RemoveItemCommand:
		return *c, nil
	case *ConfirmOrderCommand:
		return *c, nil
	case *CancelOrderCommand:
		return *c, nil
	}
	return cmd, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), strings.Split(fe.Namespace(), ".")[0]+".")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
