package utils

import (
	"regexp"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minPasswordLength = 8

// ValidateRegistration checks registration input and returns field-keyed
// messages, or nil when everything passes.
func ValidateRegistration(name, email, password string) map[string][]string {
	errs := map[string][]string{}
	if name == "" {
		errs["name"] = append(errs["name"], "The name field is required.")
	}
	if email == "" {
		errs["email"] = append(errs["email"], "The email field is required.")
	} else if !emailPattern.MatchString(email) {
		errs["email"] = append(errs["email"], "The email field must be a valid email address.")
	}
	if password == "" {
		errs["password"] = append(errs["password"], "The password field is required.")
	} else if utf8.RuneCountInString(password) < minPasswordLength {
		errs["password"] = append(errs["password"], "The password field must be at least 8 characters.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
