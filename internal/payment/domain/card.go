package domain

import (
	"strings"
)

const (
	// MinCardLength is the shortest accepted card number.
	MinCardLength = 13
	// MaxCardLength is the longest accepted card number.
	MaxCardLength = 19
)

var cardSeparators = strings.NewReplacer(" ", "", "-", "")

// SanitizeCardNumber strips spaces and hyphens from raw.
func SanitizeCardNumber(raw string) string {
	return cardSeparators.Replace(raw)
}

// ValidateCardNumber reports whether sanitized is 13-19 digits with a valid Luhn checksum.
func ValidateCardNumber(sanitized string) bool {
	if len(sanitized) < MinCardLength || len(sanitized) > MaxCardLength {
		return false
	}

	digits := make([]int, len(sanitized))
	for i := 0; i < len(sanitized); i++ {
		c := sanitized[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}

	return validateLuhn(digits)
}

// LastFour returns the final four characters of a sanitized card number.
func LastFour(sanitized string) string {
	if len(sanitized) <= 4 {
		return sanitized
	}
	return sanitized[len(sanitized)-4:]
}

// MaskCardNumber replaces all but the last four digits with '*'.
func MaskCardNumber(sanitized string) string {
	if len(sanitized) <= 4 {
		return sanitized
	}
	return strings.Repeat("*", len(sanitized)-4) + LastFour(sanitized)
}

// validateLuhn validates a complete number (including check digit) using the Luhn algorithm.
func validateLuhn(digits []int) bool {
	sum := 0
	length := len(digits)

	// Double every second digit from the right, skipping the check digit
	for i := 0; i < length; i++ {
		digit := digits[length-1-i]
		if i%2 == 1 {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
	}

	return sum%10 == 0
}
