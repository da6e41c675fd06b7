package errors

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// nameRegex matches identifiers accepted from untrusted input (topology kinds,
// output formats, activation names).
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// ValidateName validates an identifier received from a query string or flag.
// It rejects empty, overlong and non-identifier values before they are looked up.
func ValidateName(field, value string) error {
	if value == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", field)
	}

	const maxNameLength = 32
	if len(value) > maxNameLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxNameLength)
	}

	if !nameRegex.MatchString(strings.ToLower(value)) {
		return New(ErrCodeInvalidInput, "%s contains invalid characters: %q", field, value)
	}

	return nil
}

// ParseFloat parses a decimal value for the named field.
// NaN and infinities are rejected: they cannot be clamped meaningfully.
func ParseFloat(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "%s must be a number", field)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, New(ErrCodeInvalidInput, "%s must be finite", field)
	}
	return v, nil
}

// ParseInt parses an integer value for the named field.
func ParseInt(field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "%s must be an integer", field)
	}
	return v, nil
}

// ParseUint64 parses an unsigned 64-bit value such as a random seed.
func ParseUint64(field, raw string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidInput, err, "%s must be a non-negative integer", field)
	}
	return v, nil
}
