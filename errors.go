package headtable

import (
	"errors"
	"strings"
)

// Configuration errors, returned aggregated in a *ConfigError.
var (
	// ErrDuplicateFeature is returned when more than one plugin provides the same feature.
	ErrDuplicateFeature = errors.New("more than one plugin is providing the feature")

	// ErrMissingRequirement is returned when no plugin provides a required feature.
	ErrMissingRequirement = errors.New("configuration is missing requirement")

	// ErrDuplicatePlugin is returned when two plugins with the same name are configured.
	ErrDuplicatePlugin = errors.New("plugin configured more than once")

	// ErrInvalidPluginEntry is returned for entries without a class or an instance.
	ErrInvalidPluginEntry = errors.New("plugin entry must have a class or an instance")

	// ErrDuplicateColumnKey is returned when two columns share a key.
	ErrDuplicateColumnKey = errors.New("duplicate column key")
)

// Programmer errors, used as panic values wrapped with fmt.Errorf.
var (
	ErrPluginNotRegistered = errors.New("plugin is not registered on the table")
	ErrNoMeta              = errors.New("plugin does not have meta specified")
	ErrNoTableMeta         = errors.New("plugin does not specify table meta")
	ErrNoColumnMeta        = errors.New("plugin does not specify column meta")
	ErrNoRowMeta           = errors.New("plugin does not specify row meta")
	ErrMetaCycle           = errors.New("plugin meta may only be instantiated once per owner")
	ErrMetaType            = errors.New("plugin meta has unexpected type")
	ErrOptionsType         = errors.New("plugin options have unexpected type")
	ErrFeatureNotFound     = errors.New("could not find plugin with feature")
	ErrNoColumns           = errors.New("plugin does not provide columns")
	ErrColumnNotInTable    = errors.New("column is not a part of the table")
	ErrRowNotInTable       = errors.New("row is no longer a part of the table")
)

// ConfigError aggregates every violation found while
// resolving a table configuration.
// Error returns one line per violation.
type ConfigError struct {
	Violations []error
}

func (e *ConfigError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, err := range e.Violations {
		lines[i] = err.Error()
	}
	return strings.Join(lines, "\n")
}

// Unwrap makes errors.Is and errors.As work with every violation.
func (e *ConfigError) Unwrap() []error {
	return e.Violations
}

// configErrorOrNil returns nil if there are no violations
// so callers never get a typed nil error.
func configErrorOrNil(violations []error) error {
	if len(violations) == 0 {
		return nil
	}
	return &ConfigError{Violations: violations}
}
