package backoff

import "errors"

// ErrInvalidConfiguration is the sentinel error for configurations rejected
// by New. Match it with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid backoff configuration")

// ConfigurationError reports which Config field was rejected and why.
type ConfigurationError struct {
	Field   string
	Message string
}

// Error returns the formatted configuration failure message.
func (e *ConfigurationError) Error() string {
	if e == nil {
		return ErrInvalidConfiguration.Error()
	}

	return "invalid backoff configuration: " + e.Field + ": " + e.Message
}

// Unwrap returns the sentinel configuration error for errors.Is.
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}
