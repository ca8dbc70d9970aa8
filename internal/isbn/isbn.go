// Package isbn validates International Standard Book Numbers and
// converts between the ISBN-10 and ISBN-13 forms.
package isbn

import (
	"fmt"
	"strings"
)

// Clean strips hyphens and spaces from an ISBN, leaving only the
// significant digits (and a possible trailing X for ISBN-10).
func Clean(identifier string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, identifier)
}

// IsValid reports whether identifier is a syntactically valid ISBN-10 or
// ISBN-13, including a correct check digit. Hyphens and spaces are ignored.
func IsValid(identifier string) bool {
	cleaned := Clean(identifier)
	switch len(cleaned) {
	case 10:
		return isValid10(cleaned)
	case 13:
		return isValid13(cleaned)
	}
	return false
}

// To13 converts a valid ISBN-10 or ISBN-13 to its canonical unhyphenated
// ISBN-13 form.
func To13(identifier string) (string, error) {
	cleaned := Clean(identifier)
	switch {
	case len(cleaned) == 13 && isValid13(cleaned):
		return cleaned, nil
	case len(cleaned) == 10 && isValid10(cleaned):
		body := "978" + cleaned[:9]
		return body + string(checkDigit13(body)), nil
	}
	return "", fmt.Errorf("%q is not a valid ISBN", identifier)
}

// isValid10 checks a 10-character ISBN: nine digits plus a digit or X
// check character, weighted sum divisible by 11.
func isValid10(cleaned string) bool {
	sum := 0
	for i, r := range cleaned {
		var value int
		switch {
		case r >= '0' && r <= '9':
			value = int(r - '0')
		case (r == 'X' || r == 'x') && i == 9:
			value = 10
		default:
			return false
		}
		sum += (10 - i) * value
	}
	return sum%11 == 0
}

// isValid13 checks a 13-digit ISBN: bookland prefix plus alternating
// 1/3-weighted checksum.
func isValid13(cleaned string) bool {
	if !strings.HasPrefix(cleaned, "978") && !strings.HasPrefix(cleaned, "979") {
		return false
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return false
		}
	}
	return checkDigit13(cleaned[:12]) == rune(cleaned[12])
}

// checkDigit13 computes the ISBN-13 check digit for the first 12 digits.
func checkDigit13(body string) rune {
	sum := 0
	for i, r := range body {
		value := int(r - '0')
		if i%2 == 1 {
			value *= 3
		}
		sum += value
	}
	return rune('0' + (10-sum%10)%10)
}
