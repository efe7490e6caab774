package auth

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FieldErrors maps field name to its validation messages, the shape the
// presentation layer renders next to each form field.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// passwordErrors enforces the registration password policy: at least 8
// characters with a letter, a number, and a special character.
func passwordErrors(password string) []string {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "Be at least 8 characters long")
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasLetter {
		errs = append(errs, "Contain at least one letter.")
	}
	if !hasDigit {
		errs = append(errs, "Contain at least one number.")
	}
	if !hasSpecial {
		errs = append(errs, "Contain at least one special character.")
	}
	return errs
}

func validateRegister(input RegisterInput) FieldErrors {
	fe := FieldErrors{}
	if err := validate.Struct(input); err != nil {
		for _, ve := range err.(validator.ValidationErrors) {
			field := strings.ToLower(ve.Field())
			switch ve.Tag() {
			case "email":
				fe.add(field, "Must be a valid email address")
			default:
				fe.add(field, "Is required")
			}
		}
	}
	if input.Password != "" {
		for _, msg := range passwordErrors(input.Password) {
			fe.add("password", msg)
		}
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

func validateLogin(input LoginInput) FieldErrors {
	fe := FieldErrors{}
	if err := validate.Struct(input); err != nil {
		for _, ve := range err.(validator.ValidationErrors) {
			field := strings.ToLower(ve.Field())
			switch ve.Tag() {
			case "email":
				fe.add(field, "Must be a valid email address")
			default:
				fe.add(field, "Is required")
			}
		}
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}
