package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrCarNotFound is returned when a car does not exist or is not
	// owned by the calling principal. The two cases are deliberately not
	// distinguished so callers cannot probe for other users' records.
	ErrCarNotFound = errors.New("car not found")

	// ErrUnauthorized signals a missing or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
