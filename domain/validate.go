package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// freshdate: a parseable ISO date no earlier than tomorrow. Expired or
	// same-day stock cannot be created through the client.
	_ = v.RegisterValidation("freshdate", func(fl validator.FieldLevel) bool {
		d, err := time.Parse(DateLayout, fl.Field().String())
		if err != nil {
			return false
		}
		now := time.Now()
		tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
		return !d.Before(tomorrow)
	})
	return v
}

// ValidateRequest checks a ProductRequest locally. It returns a
// *ValidationError with one message per offending field, or nil.
func ValidateRequest(req ProductRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			if fe.Tag() == "max" {
				fields["name"] = "must be at most 120 characters"
			} else {
				fields["name"] = "is required"
			}
		case "UnitPrice":
			fields["unitPrice"] = "must be greater than zero"
		case "Stock":
			fields["stock"] = "must not be negative"
		case "ExpirationDate":
			fields["expirationDate"] = "must be a date (YYYY-MM-DD) no earlier than tomorrow"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}
	return &ValidationError{Fields: fields}
}
