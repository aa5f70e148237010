package service

import (
	"errors"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

// MaxNameLength is the maximum number of characters in a product name.
const MaxNameLength = 255

// productValidator checks ProductInputDto fields in declaration order.
var productValidator = newProductValidator()

func newProductValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// notblank trims surrounding whitespace before checking for emptiness
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// decimals are validated by their sign, so gt=0 means strictly positive at any scale
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.Sign()
		}
		return nil
	}, decimal.Decimal{})
	// report JSON field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks product input against the catalog rules, in order: name, description, price.
// Only the first violated field is reported, as an *errors.InvalidInputError.
func Validate(input ProductInputDto) error {
	err := productValidator.Struct(input)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return &perrors.InvalidInputError{Field: validationErrors[0].Field()}
	}
	return err
}
