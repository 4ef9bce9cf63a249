package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrCompetitionClosed  = errors.New("competition has ended")
)

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseID parses a positive numeric identifier.
func ParseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &ValidationError{Field: field, Reason: "missing"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if id <= 0 {
		return 0, &ValidationError{Field: field, Reason: "must be positive"}
	}
	return id, nil
}

func checkID(field string, id int64) error {
	if id <= 0 {
		return &ValidationError{Field: field, Reason: "must be positive"}
	}
	return nil
}
