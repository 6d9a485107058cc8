package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/subo-hems/api/internal/domain"
)

var validate = validator.New()

// validateInput runs struct validation and converts the first failure into
// an ErrValidation with a client-facing message.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	switch fe.Field() {
	case "Items":
		return "items are required"
	case "Type":
		return "type must be dine-in or takeout"
	case "TableNumber":
		if fe.Tag() == "required_if" {
			return "table number is required for dine-in orders"
		}
		return "table number must be positive"
	case "Quantity":
		return itemPath(fe) + ": quantity must be > 0"
	case "MenuID", "Name":
		return itemPath(fe) + ": menu item is required"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

// itemPath turns "NewOrder.Items[2].Quantity" into "items[2]".
func itemPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	start := strings.Index(ns, "Items[")
	if start < 0 {
		return "items"
	}
	end := strings.Index(ns[start:], "]")
	if end < 0 {
		return "items"
	}
	return "items" + ns[start+len("Items"):start+end+1]
}
