package checks

import "strings"

const redacted = "[REDACTED]"

// MaskSSN keeps only the serial number, e.g. XXX-XX-6789.
func MaskSSN(ssn string) (string, bool) {
	if !ValidSSN(ssn) {
		return "", false
	}
	digits := strings.ReplaceAll(ssn, "-", "")
	return "XXX-XX-" + digits[5:], true
}

// MaskEmail keeps the first character of the local part and the domain.
func MaskEmail(email string) (string, bool) {
	if !ValidEmail(email) {
		return "", false
	}
	parts := strings.Split(email, "@")
	if len(parts) != 2 || len(parts[0]) < 2 {
		return "", false
	}
	return string(parts[0][0]) + "***@" + parts[1], true
}

func maskOrRedact(v *string, mask func(string) (string, bool)) string {
	if v == nil {
		return "<nil>"
	}
	if m, ok := mask(*v); ok {
		return m
	}
	return redacted
}
