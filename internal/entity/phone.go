package entity

import "strings"

// NormalizePhone keeps digits only. Ten digits are treated as a US number and
// get +1; anything else is prefixed with + as-is. No digits yields "".
func NormalizePhone(raw string) string {
	digits := PhoneDigits(raw)
	switch {
	case digits == "":
		return ""
	case len(digits) == 10:
		return "+1" + digits
	default:
		return "+" + digits
	}
}

// PhoneDigits strips everything but ASCII digits.
func PhoneDigits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
