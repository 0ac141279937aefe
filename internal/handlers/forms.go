package handlers

import (
	"fmt"

	"taskhub/internal/services"

	"github.com/go-playground/validator/v10"
)

// RegisterForm carries the registration form fields.
type RegisterForm struct {
	Username        string `form:"username" validate:"required,min=3,max=100"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
}

// LoginForm carries the login form fields.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// TaskForm carries the new/edit task form fields.
type TaskForm struct {
	Title       string `form:"title" validate:"required,max=200"`
	Description string `form:"description" validate:"omitempty,max=2000"`
}

// validateForm runs the struct validator over a form and translates failures
// into a ValidationError with one message per field. It is independent of any
// rendering: callers decide how to surface the field map.
func validateForm(validate *validator.Validate, form interface{}) *services.ValidationError {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	validationErrors := err.(validator.ValidationErrors)
	fields := make(map[string]string)
	for _, e := range validationErrors {
		fields[e.Field()] = fieldMessage(e)
	}
	return &services.ValidationError{Fields: fields}
}

// fieldMessage renders a single validator failure as a user-facing message.
func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "eqfield":
		return "Passwords must match"
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag())
	}
}
