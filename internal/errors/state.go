//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

import "fmt"

// StateError represents an installer lock error.
type StateError struct {
	Base Error `json:"error"`

	// LockPID is the PID of the process holding the lock (if applicable).
	LockPID int `json:"lockPid,omitempty"`

	// LockFile is the path to the lock file.
	LockFile string `json:"lockFile,omitempty"`
}

// NewStateError creates a StateError.
func NewStateError(message string, cause error) *StateError {
	return &StateError{
		Base: Error{
			Category: CategoryState,
			Code:     CodeStateError,
			Message:  message,
			Cause:    cause,
		},
	}
}

// NewLockError creates a StateError for lock conflicts.
func NewLockError(lockFile string, lockPID int) *StateError {
	hint := fmt.Sprintf("Wait for the other installer to finish, or\nrun 'rm %s' if it's stale.", lockFile)
	return &StateError{
		Base: Error{
			Category: CategoryState,
			Code:     CodeStateLocked,
			Message:  "installer locked",
			Hint:     hint,
		},
		LockPID:  lockPID,
		LockFile: lockFile,
	}
}

// Error implements the error interface for StateError.
func (e *StateError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error for StateError.
func (e *StateError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *StateError) Is(target error) bool {
	t, ok := target.(*StateError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
