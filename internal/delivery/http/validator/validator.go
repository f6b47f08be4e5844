// Package validator adapts go-playground/validator to Echo's Validator
// interface.
package validator

import (
	domainerrors "github.com/SanderFernadez/Api-DGA/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// RequestValidator validates bound request payloads against their struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// New creates a RequestValidator ready to plug into echo.Echo.Validator.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Tag violations surface as a 400
// application error carrying the first failure as detail.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	return nil
}
