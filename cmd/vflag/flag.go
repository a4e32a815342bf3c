// Package vflag holds command line flag types that validate their value.
package vflag

import (
	"fmt"
	"strings"
)

// ValidateFlag is a string flag restricted to a set of allowed values
type ValidateFlag struct {
	Allowed []string
	Value   string
}

// NewValidateFlag returns a flag holding def, which must be allowed
func NewValidateFlag(def string, allowed ...string) *ValidateFlag {
	return &ValidateFlag{Allowed: allowed, Value: def}
}

func (f *ValidateFlag) String() string {
	if f == nil {
		return ""
	}
	return f.Value
}

// Set will be called for flag that is of validateFlag type
func (f *ValidateFlag) Set(value string) error {
	for _, allowed := range f.Allowed {
		if value == allowed {
			f.Value = value
			return nil
		}
	}
	return fmt.Errorf("%q is not one of: %s", value, strings.Join(f.Allowed, ", "))
}
