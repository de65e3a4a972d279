// Package validate wires go-playground/validator into Echo's Validator
// hook so handlers can call c.Validate on bound request bodies.
package validate

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// mobile numbers are ten digits starting 6-9
var phoneRE = regexp.MustCompile(`^[6-9]\d{9}$`)

// RequestValidator adapts a validator.Validate instance to Echo's
// Validator interface.  Failures are surfaced as 400 responses.
type RequestValidator struct {
	v *validator.Validate
}

// New builds a RequestValidator with the custom "mobile" rule used for
// phone identifiers.
func New() *RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return phoneRE.MatchString(fl.Field().String())
	})
	return &RequestValidator{v: v}
}

// Validate implements echo.Validator.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// IsMobile reports whether s looks like a valid mobile number.  Exposed for
// handlers that classify a flexible identifier before lookup.
func IsMobile(s string) bool { return phoneRE.MatchString(s) }
