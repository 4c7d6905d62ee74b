// Package validators holds shared go-playground/validator helpers and custom tags.
package validators

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// lccnPattern matches normalized Library of Congress Control Numbers,
// e.g. sn83030214 or 2001260203.
var lccnPattern = regexp.MustCompile(`^[a-z]{0,3}\d{8,10}$`)

// LCCNValidation validates the "lccn" tag.
func LCCNValidation(fl validator.FieldLevel) bool {
	return lccnPattern.MatchString(fl.Field().String())
}

// Validator returns the shared validator with the custom tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		if err := validate.RegisterValidation("lccn", LCCNValidation); err != nil {
			panic(fmt.Sprintf("failed to register lccn validator: %v", err))
		}
	})
	return validate
}

// ValidateStruct validates s and flattens validation errors into a single message.
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
		}
		return fmt.Errorf("validation failed: %v", messages)
	}
	return fmt.Errorf("validation error: %w", err)
}
