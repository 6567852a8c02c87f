package helpers

import (
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyCartID     contextKey = "cartID"
	ContextKeySessionKey contextKey = "sessionKey"
	ContextKeyAdmin      contextKey = "adminUser"
)

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := toSnakeCase(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", capitalizeFirstLetter(field))
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", capitalizeFirstLetter(field))
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must be a number.", capitalizeFirstLetter(field))
		case "min", "gte":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", capitalizeFirstLetter(field), err.Param())
		case "max", "lte":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", capitalizeFirstLetter(field), err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", capitalizeFirstLetter(field), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", capitalizeFirstLetter(field), err.Tag())
		}
	}
	return errorMessages
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return ""
	}
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}
	return strings.Join(words, " ")
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func PasswordCompare(hashPass string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashPass), password)
	if err != nil {
		log.Printf("PasswordCompare: password does not match or error: %v", err)
		return false
	}
	return true
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}
