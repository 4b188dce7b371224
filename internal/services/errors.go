package services

import "fmt"

// ValidationError is a malformed request: empty message, bad body, bad history.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// AuthError is a missing or unverifiable credential where one is required.
type AuthError struct{ Message string }

func (e *AuthError) Error() string { return e.Message }

// ConfigError is a deployment problem discovered at first use, such as a
// missing model API key.
type ConfigError struct{ Message string }

func (e *ConfigError) Error() string { return e.Message }

// UpstreamError is a failed, timed-out, or empty model call. Message is safe
// to show to callers; Err is for logs only.
type UpstreamError struct {
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError means model output did not match the expected schema.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }
