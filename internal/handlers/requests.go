package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest defines the DTO for the login form.
type LoginRequest struct {
	FormID   string `form:"form_id"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// SignupRequest defines the DTO for the signup form. ConfirmPassword is compared locally by the
// controller and never forwarded.
type SignupRequest struct {
	FormID          string `form:"form_id"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirmPassword" validate:"required"`
}

// validationMessage turns a validator error into the banner text the browser's own required-field
// check would otherwise have produced.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "email" {
				return "Please enter a valid email address"
			}
		}
	}
	return "Please fill in all required fields"
}
