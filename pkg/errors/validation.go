package errors

import (
	"time"
	"unicode"
	"unicode/utf8"
)

// Layouts accepted for birth dates and times.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// maxNameLength bounds display names, which are drawn into the image header.
const maxNameLength = 64

// ValidateBirthdate checks that s is a calendar date in YYYY-MM-DD form.
// Impossible dates such as 2023-02-30 are rejected.
func ValidateBirthdate(s string) error {
	if s == "" {
		return New(ErrCodeInvalidDate, "birthdate cannot be empty")
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return New(ErrCodeInvalidDate, "invalid birthdate %q (want YYYY-MM-DD)", s)
	}
	return nil
}

// ValidateBirthtime checks that s is a 24-hour clock time in HH:MM form.
func ValidateBirthtime(s string) error {
	if s == "" {
		return New(ErrCodeInvalidTime, "birthtime cannot be empty")
	}
	if len(s) != len(TimeLayout) {
		return New(ErrCodeInvalidTime, "invalid birthtime %q (want HH:MM)", s)
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return New(ErrCodeInvalidTime, "invalid birthtime %q (want HH:MM)", s)
	}
	return nil
}

// ValidateName validates an optional display name.
// Empty names are allowed; the renderer substitutes a default.
//
// Validation rules:
//   - Valid UTF-8
//   - Maximum length of 64 characters
//   - No control characters
func ValidateName(name string) error {
	if name == "" {
		return nil
	}
	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidInput, "name is not valid UTF-8")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidateBirth validates a birthdate/birthtime pair.
func ValidateBirth(date, clock string) error {
	if err := ValidateBirthdate(date); err != nil {
		return err
	}
	return ValidateBirthtime(clock)
}
