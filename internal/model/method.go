package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMethod is returned by ParseMethod for anything other than GET or POST.
var ErrUnknownMethod = errors.New("unknown HTTP method: must be get or post")

// Method is the HTTP method used for every request of a run.
//
// Only GET and POST are supported. The zero value is GET so that an
// unconfigured run behaves like the CLI default.
type Method int

const (
	// MethodGet issues GET requests without a body.
	MethodGet Method = iota

	// MethodPost issues POST requests with an empty form body.
	MethodPost
)

// ParseMethod converts a user supplied method name to a Method.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseMethod(s string) (Method, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GET":
		return MethodGet, nil
	case "POST":
		return MethodPost, nil
	default:
		return MethodGet, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
}

// String returns the method name as it appears on the wire.
func (m Method) String() string {
	switch m {
	case MethodGet:
		return "GET"
	case MethodPost:
		return "POST"
	default:
		return "UNKNOWN"
	}
}

// IsValid reports whether m is one of the supported methods.
func (m Method) IsValid() bool {
	return m == MethodGet || m == MethodPost
}

// MarshalText encodes the method as its wire name (used by JSON reports).
func (m Method) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, ErrUnknownMethod
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a method name, accepting any letter case.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
