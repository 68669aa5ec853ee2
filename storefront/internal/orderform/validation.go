package orderform

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"overcooked-storefront/storefront/internal/domain"

	"github.com/go-playground/validator/v10"
)

const (
	MaxAddressLength = 75
	MaxQuantity      = 100

	MsgAddressRequired   = "Address is required"
	MsgAddressTooLong    = "Address too long"
	MsgQuantityTooHigh   = "You can't order more than 100 units of one single product"
	MsgQuantityNegative  = "You can't have negative quantities"
	MsgQuantityNotNumber = "Quantity must be a whole number"
)

// FieldErrors maps a form field path ("address", "products.2.quantity") to
// the message shown next to it.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+f[field])
	}
	return "invalid order: " + strings.Join(parts, ", ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks draft before submission. It returns nil or FieldErrors.
func Validate(draft domain.OrderDraft) FieldErrors {
	err := draftValidator().Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if _, seen := out[path]; seen {
			continue
		}
		out[path] = message(fe)
	}
	return out
}

// fieldPath turns "OrderDraft.products[2].quantity" into "products.2.quantity".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "address":
		if fe.Tag() == "max" {
			return MsgAddressTooLong
		}
		return MsgAddressRequired
	case "quantity":
		if fe.Tag() == "max" {
			return MsgQuantityTooHigh
		}
		return MsgQuantityNegative
	}
	return fe.Error()
}
