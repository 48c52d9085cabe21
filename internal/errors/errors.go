// Package errors provides structured error types for ffinstall.
// These errors carry context that can be formatted for the terminal
// or as JSON.
//
//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// Category represents the classification of an error.
type Category string

const (
	CategoryPrecondition Category = "precondition"
	CategoryConfig       Category = "config"
	CategoryInstall      Category = "install"
	CategoryState        Category = "state"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Precondition errors (E1xx)
	CodeEnvNotActivated Code = "E101"

	// Config errors (E2xx)
	CodeRequirementsRead Code = "E201"
	CodeConfigParse      Code = "E202"

	// Install errors (E3xx)
	CodeLaunchFailed Code = "E301"

	// State errors (E5xx)
	CodeStateError  Code = "E501"
	CodeStateLocked Code = "E502"
)

// Error is the base error type for ffinstall.
type Error struct {
	// Category classifies the error type.
	Category Category `json:"category"`

	// Code is a machine-readable error code.
	Code Code `json:"code,omitempty"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Hint provides actionable advice for the user.
	Hint string `json:"hint,omitempty"`

	// Cause is the underlying error.
	Cause error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// WithHint sets the hint and returns the error for chaining.
func (e *Error) WithHint(hint string) *Error {
	e.Hint = hint
	return e
}
