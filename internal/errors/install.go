//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "fmt"

// InstallError represents an external tool that could not be started.
type InstallError struct {
	Base Error `json:"error"`

	// Step is the plan step being executed (uninstall, install, patch).
	Step string `json:"step,omitempty"`

	// Executable is the program that failed to launch.
	Executable string `json:"executable,omitempty"`
}

// NewLaunchError creates an InstallError for a step whose executable could not run.
func NewLaunchError(step, executable string, cause error) *InstallError {
	err := &InstallError{
		Base: Error{
			Category: CategoryInstall,
			Code:     CodeLaunchFailed,
			Message:  fmt.Sprintf("%s failed", step),
			Cause:    cause,
		},
		Step:       step,
		Executable: executable,
	}
	err.Base.WithHint(fmt.Sprintf("Check that %s is installed and on your PATH,\nor set its location in .ffinstall.yaml.", executable))
	return err
}

// Error implements the error interface for InstallError.
func (e *InstallError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error for InstallError.
func (e *InstallError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *InstallError) Is(target error) bool {
	t, ok := target.(*InstallError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
