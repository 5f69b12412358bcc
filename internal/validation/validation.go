package validation

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// ErrCityEmpty is returned when the city is empty or whitespace-only after trim.
var ErrCityEmpty = errors.New("city is required")

// ErrCityTooShort is returned when the city length is below the minimum.
var ErrCityTooShort = errors.New("city too short")

// ErrCityTooLong is returned when the city length exceeds the maximum.
var ErrCityTooLong = errors.New("city too long")

// ErrCityInvalidChars is returned when the city contains disallowed characters.
var ErrCityInvalidChars = errors.New("city contains invalid characters")

// ValidateCity trims the input, composes it to NFC, enforces length bounds
// (minLen, maxLen in runes), and restricts to allowed characters: Unicode
// letters, combining marks, digits, space and , - . ' ’ ( ). Returns the
// normalized string; case is left alone so the provider sees what the user entered.
func ValidateCity(input string, minLen, maxLen int) (string, error) {
	s := norm.NFC.String(strings.TrimSpace(input))
	r := []rune(s)
	n := len(r)
	if n == 0 {
		return "", ErrCityEmpty
	}
	if minLen > 0 && n < minLen {
		return "", ErrCityTooShort
	}
	if maxLen > 0 && n > maxLen {
		return "", ErrCityTooLong
	}
	for _, c := range r {
		if !isAllowedCityRune(c) {
			return "", ErrCityInvalidChars
		}
	}
	return s, nil
}

// IsInvalid reports whether err came from ValidateCity.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrCityEmpty) ||
		errors.Is(err, ErrCityTooShort) ||
		errors.Is(err, ErrCityTooLong) ||
		errors.Is(err, ErrCityInvalidChars)
}

func isAllowedCityRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', ',', '-', '.', '\'', '’', '(', ')':
		return true
	}
	return false
}

// DisplayName title-cases a city for presentation ("new york" -> "New York").
// Internal whitespace runs collapse to one space.
func DisplayName(city string) string {
	fields := strings.Fields(city)
	if len(fields) == 0 {
		return ""
	}
	// cases.Caser is stateful; a fresh one per call keeps this safe for concurrent use.
	return cases.Title(language.Und).String(strings.Join(fields, " "))
}
