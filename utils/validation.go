// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	// Canonical plate grammar: two letters, two digits, three letters,
	// checked after normalization strips all whitespace.
	plateRegex = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{3}$`)

	// UK-style postcode, outward + inward code with an optional space.
	postcodeRegex = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)

	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// NormalizePlate converts a number plate to its canonical stored form:
// uppercase with all whitespace removed.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), ""))
}

// ValidatePlate checks a plate against the canonical grammar. Callers
// must normalize first; validation happens on the canonical form.
func ValidatePlate(plate string) bool {
	return plateRegex.MatchString(plate)
}

// ValidatePostcode checks a postcode in its uppercase form.
func ValidatePostcode(postcode string) bool {
	return postcodeRegex.MatchString(strings.ToUpper(strings.TrimSpace(postcode)))
}

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows an optional + or leading zero followed by 7-15 digits
	regex := `^(\+|0)?[1-9]\d{6,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}

// ValidateCoordinates checks a lat/lng pair in decimal degrees.
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
