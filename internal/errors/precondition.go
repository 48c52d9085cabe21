//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// PreconditionError reports that the installer refused to run in the current environment.
type PreconditionError struct {
	Base Error `json:"error"`

	// Variable is the environment variable that was expected.
	Variable string `json:"variable,omitempty"`
}

// NewEnvNotActivatedError creates the error returned when no conda environment is active.
func NewEnvNotActivatedError(variable string) *PreconditionError {
	return &PreconditionError{
		Base: Error{
			Category: CategoryPrecondition,
			Code:     CodeEnvNotActivated,
			Message:  "conda is not activated",
			Hint:     "Run 'conda activate <env>' first, or pass --skip-conda\nto install into the current interpreter.",
		},
		Variable: variable,
	}
}

// Error implements the error interface for PreconditionError.
func (e *PreconditionError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error for PreconditionError.
func (e *PreconditionError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *PreconditionError) Is(target error) bool {
	t, ok := target.(*PreconditionError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
