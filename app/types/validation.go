package types

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxEmailLength = 255
	minNameLength  = 2
	maxNameLength  = 50
	minDailyGoalMl = 500
	maxDailyGoalMl = 5000
	maxAmountMl    = 5000
)

var namePattern = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every failed field of a request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	messages := make([]string, len(v))
	for i, fe := range v {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

func (v *ValidationErrors) add(field, message string) {
	*v = append(*v, FieldError{Field: field, Message: message})
}

func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func validateEmail(errs *ValidationErrors, field, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.add(field, field+" is required")
		return
	}
	if len(email) > maxEmailLength {
		errs.add(field, field+" cannot exceed 255 characters")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs.add(field, "please provide a valid email address")
	}
}

func validateName(errs *ValidationErrors, field, name string) {
	name = strings.TrimSpace(name)
	length := utf8.RuneCountInString(name)
	switch {
	case length < minNameLength:
		errs.add(field, "name must be at least 2 characters long")
	case length > maxNameLength:
		errs.add(field, "name cannot exceed 50 characters")
	case !namePattern.MatchString(name):
		errs.add(field, "name can only contain letters, spaces, hyphens, and apostrophes")
	}
}

func validateAmount(errs *ValidationErrors, field string, amount int) {
	if amount < 1 || amount > maxAmountMl {
		errs.add(field, "amount must be between 1 and 5000 ml")
	}
}
