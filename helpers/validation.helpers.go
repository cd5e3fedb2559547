package helpers

import (
	"regexp"
	"unicode"
)

var validEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsStringProvided reports whether the parameter is a non-empty string.
func IsStringProvided(param string) bool {
	return len(param) > 0
}

// IsValidEmail reports whether the parameter looks like an email address.
func IsValidEmail(email string) bool {
	return validEmail.MatchString(email)
}

// IsValidPassword checks minimum strength: at least 8 characters with an
// uppercase letter, a lowercase letter, a digit, a special character, and no
// whitespace.
func IsValidPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}
