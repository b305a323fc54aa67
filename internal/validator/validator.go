// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Card numbers may contain spaces or dashes between digit groups.
var cardNumberRegex = regexp.MustCompile(`^[0-9](?:[0-9 -]{11,17})[0-9]$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("hex_color", validateHexColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("category_type", validateCategoryType)
		_ = v.RegisterValidation("card_type", validateCardType)
		_ = v.RegisterValidation("card_system", validateCardSystem)
		_ = v.RegisterValidation("card_number", validateCardNumber)
	}
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateCardType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debit", "credit":
		return true
	}
	return false
}

func validateCardSystem(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "mir", "visa", "mastercard":
		return true
	}
	return false
}

func validateCardNumber(fl validator.FieldLevel) bool {
	return cardNumberRegex.MatchString(fl.Field().String())
}
