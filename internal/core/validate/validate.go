// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// Required checks that s is non-empty after trimming whitespace.
func Required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

// HTTPURL checks that s is an absolute http or https URL.
func HTTPURL(s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", s, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid http url %q", s)
	}
	return nil
}

// Glob checks that s is a valid doublestar pattern.
func Glob(s string) error {
	if !doublestar.ValidatePattern(s) {
		return fmt.Errorf("invalid glob %q", s)
	}
	return nil
}

// Field runs fn against v under the given field name.
func Field(field, v string, fn func(string) error) error {
	return criterio.Run(field, v, fn)
}
