//nolint:revive // Package name intentionally shadows stdlib errors for convenience.
package errors

// ConfigError represents a failure to read the requirements file or the config file.
type ConfigError struct {
	Base Error `json:"error"`

	// File is the path that could not be read or parsed.
	File string `json:"file,omitempty"`
}

// NewRequirementsError creates a ConfigError for an unreadable requirements file.
func NewRequirementsError(file string, cause error) *ConfigError {
	return &ConfigError{
		Base: Error{
			Category: CategoryConfig,
			Code:     CodeRequirementsRead,
			Message:  "failed to read requirements",
			Hint:     "Run the installer from the project root, where requirements.txt lives.",
			Cause:    cause,
		},
		File: file,
	}
}

// NewConfigError creates a ConfigError for an invalid config file.
func NewConfigError(file string, cause error) *ConfigError {
	return &ConfigError{
		Base: Error{
			Category: CategoryConfig,
			Code:     CodeConfigParse,
			Message:  "failed to load config",
			Cause:    cause,
		},
		File: file,
	}
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return e.Base.Error()
}

// Unwrap returns the underlying error for ConfigError.
func (e *ConfigError) Unwrap() error {
	return e.Base.Cause
}

// Is reports whether the target error matches this error by code.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Base.Code == t.Base.Code
}
