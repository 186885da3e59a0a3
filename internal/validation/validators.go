package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kunal-511/weekendly/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

// Themes lists the theme ids accepted by the "theme" rule.
var Themes = []string{"chill", "adventure", "social"}

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("energy", validateEnergy); err != nil {
		panic(fmt.Sprintf("failed to register energy validator: %v", err))
	}
	if err := Validate.RegisterValidation("social", validateSocial); err != nil {
		panic(fmt.Sprintf("failed to register social validator: %v", err))
	}
	if err := Validate.RegisterValidation("vibe", validateVibe); err != nil {
		panic(fmt.Sprintf("failed to register vibe validator: %v", err))
	}
	if err := Validate.RegisterValidation("theme", validateTheme); err != nil {
		panic(fmt.Sprintf("failed to register theme validator: %v", err))
	}
}

func validateEnergy(fl validator.FieldLevel) bool {
	return models.Energy(fl.Field().String()).Valid()
}

func validateSocial(fl validator.FieldLevel) bool {
	return models.Social(fl.Field().String()).Valid()
}

func validateVibe(fl validator.FieldLevel) bool {
	return models.Vibe(fl.Field().String()).Valid()
}

func validateTheme(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, id := range Themes {
		if value == id {
			return true
		}
	}
	return false
}

// SanitizeText trims whitespace and drops control characters except
// newline and tab. Used for user supplied notes.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// Struct validates s and flattens validator errors into one message.
func Struct(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
