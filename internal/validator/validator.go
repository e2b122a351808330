// Package validator wraps go-playground/validator with the custom tags used by
// request bodies and configuration.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/toria/pkg/domain"
	playground "github.com/go-playground/validator/v10"
)

// Validator validates structs tagged with `validate:"..."`.
type Validator struct {
	validate *playground.Validate
}

// FieldError describes the first failing field of a struct.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field, strings.ReplaceAll(e.Param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must have at least %s item(s)", e.Field, e.Param)
	case "plan_status":
		return fmt.Sprintf("%s must be one of: current, upcoming, past", e.Field)
	case "reel_type":
		return fmt.Sprintf("%s must be Food or Place", e.Field)
	default:
		return fmt.Sprintf("%s failed on the '%s' rule", e.Field, e.Tag)
	}
}

// New creates a Validator. Field names in errors follow the json (or yaml) tag.
func New() *Validator {
	v := playground.New(playground.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "yaml"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	_ = v.RegisterValidation("plan_status", validatePlanStatus)
	_ = v.RegisterValidation("reel_type", validateReelType)

	return &Validator{validate: v}
}

// Struct validates s and returns a *FieldError for the first violation.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return &FieldError{Field: fieldPath(e.Namespace()), Tag: e.Tag(), Param: e.Param()}
	}
	return err
}

// fieldPath drops the top-level struct name from a namespace ("Req.user_id" → "user_id").
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func validatePlanStatus(fl playground.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	_, err := domain.ParsePlanStatus(raw)
	return err == nil
}

func validateReelType(fl playground.FieldLevel) bool {
	switch domain.ReelType(fl.Field().String()) {
	case "", domain.ReelFood, domain.ReelPlace:
		return true
	default:
		return false
	}
}
