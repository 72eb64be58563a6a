package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	Validate = validator.New()
	Validate.RegisterValidation("arn", ValidateArnRule)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("arn", ValidateArnRule)
	}
}

func ValidateArnRule(fl validator.FieldLevel) bool {
	return ValidateArn(fl.Field().String())
}

// ValidateArn checks the application reference number format: exactly
// 15 ASCII digits, nothing else. Digits from other scripts are
// rejected so the length check cannot be gamed with multi-byte runes.
func ValidateArn(arn string) bool {
	if len(arn) != 15 {
		return false
	}
	for i := 0; i < len(arn); i++ {
		if arn[i] < '0' || arn[i] > '9' {
			return false
		}
	}
	return true
}
