package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	apperrors "github.com/segyhp/fundease/pkg/errors"
)

// Rule is a caller-defined tag checked against a string field.
type Rule struct {
	Tag   string
	Valid func(value string) bool
	// Message completes "<field> <value> ..." when the rule fails.
	Message string
}

// Validator checks request structs and reports violations as validation errors.
type Validator struct {
	v     *validator.Validate
	rules map[string]Rule
}

// New returns a validator that understands decimal.Decimal fields, the
// built-in decimal tags and any caller rules:
//
//	decimal_gt=N      value > N
//	decimal_gte=N     value >= N
//	decimal_places=N  at most N digits after the point
func New(rules ...Rule) *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("decimal_gt", compareDecimal(func(value, bound decimal.Decimal) bool {
		return value.GreaterThan(bound)
	}))
	_ = v.RegisterValidation("decimal_gte", compareDecimal(func(value, bound decimal.Decimal) bool {
		return value.GreaterThanOrEqual(bound)
	}))
	_ = v.RegisterValidation("decimal_places", decimalPlaces)

	byTag := make(map[string]Rule, len(rules))
	for _, rule := range rules {
		valid := rule.Valid
		_ = v.RegisterValidation(rule.Tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
		byTag[rule.Tag] = rule
	}

	return &Validator{v: v, rules: byTag}
}

func compareDecimal(ok func(value, bound decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		bound, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return ok(value, bound)
	}
}

// decimalPlaces compares by value, so trailing zeros ("1.500") do not count.
func decimalPlaces(fl validator.FieldLevel) bool {
	places, err := strconv.Atoi(fl.Param())
	if err != nil || places < 0 {
		return false
	}
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return value.Equal(value.Round(int32(places)))
}

// Struct validates s and reports violations as a single validation error.
func (cv *Validator) Struct(s interface{}) error {
	err := cv.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.WrapValidation(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, cv.describe(fe))
	}
	return apperrors.WrapValidation(strings.Join(msgs, "; "))
}

func (cv *Validator) describe(fe validator.FieldError) string {
	if rule, ok := cv.rules[fe.Tag()]; ok && rule.Message != "" {
		return fmt.Sprintf("%s %q %s", fe.Field(), fe.Value(), rule.Message)
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "decimal_gt", "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "decimal_gte", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "decimal_places":
		return fmt.Sprintf("%s must have at most %s decimal places", fe.Field(), fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
