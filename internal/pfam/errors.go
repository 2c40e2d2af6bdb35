package pfam

import (
	"errors"
	"fmt"
)

// ErrUnknownAccession is wrapped by strict catalog lookups that miss.
var ErrUnknownAccession = errors.New("unknown accession")

// ConfigError is a user-actionable failure that aborts the pipeline. The
// message names the offending file or step and the remedy.
type ConfigError struct {
	Msg string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// WrapConfig builds a ConfigError carrying cause.
func WrapConfig(cause error, format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...), Err: cause}
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
