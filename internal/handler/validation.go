package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"limo/internal/domain"
)

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// RegisterValidators adds the domain validation tags to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}
	return registerValidators(v)
}

func registerValidators(v *validator.Validate) error {
	// Report JSON/form names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	validators := map[string]validator.Func{
		"ridetype": func(fl validator.FieldLevel) bool {
			return domain.RideType(fl.Field().String()).Valid()
		},
		"pricingmodel": func(fl validator.FieldLevel) bool {
			return domain.PricingModel(fl.Field().String()).Valid()
		},
		"vehicletype": func(fl validator.FieldLevel) bool {
			return domain.VehicleType(fl.Field().String()).Valid()
		},
		"currency": func(fl validator.FieldLevel) bool {
			return currencyPattern.MatchString(fl.Field().String())
		},
	}

	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

// bindErrorMessage turns a binding error into a client-facing message.
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "ridetype", "pricingmodel", "vehicletype", "currency", "oneof":
			msgs = append(msgs, fmt.Sprintf("%s has an unsupported value %q", field, fmt.Sprint(fe.Value())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
