package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Network errors (1xxx)
	ErrCodeNetworkUnavailable ErrorCode = "QLE1001"
	ErrCodeRequestFailed      ErrorCode = "QLE1002"
	ErrCodeTimeout            ErrorCode = "QLE1003"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "QLE2001"
	ErrCodeConfigInvalid  ErrorCode = "QLE2002"

	// Hosting API errors (3xxx)
	ErrCodePathNotFound   ErrorCode = "QLE3001"
	ErrCodeForbidden      ErrorCode = "QLE3002"
	ErrCodeAPIFailure     ErrorCode = "QLE3003"
	ErrCodeGraphQLFailure ErrorCode = "QLE3004"
	ErrCodeRepoSyncFailed ErrorCode = "QLE3005"
	ErrCodeCommitNotFound ErrorCode = "QLE3006"

	// Rendering errors (4xxx)
	ErrCodeRenderFailed ErrorCode = "QLE4001"

	// File system errors (5xxx)
	ErrCodeFileNotFound  ErrorCode = "QLE5001"
	ErrCodeFileOperation ErrorCode = "QLE5002"

	// Validation errors (6xxx)
	ErrCodeInvalidInput  ErrorCode = "QLE6001"
	ErrCodeRequiredField ErrorCode = "QLE6002"

	// Credential errors (7xxx)
	ErrCodeAuthRequired     ErrorCode = "QLE7001"
	ErrCodeCredentialStore  ErrorCode = "QLE7002"
	ErrCodeEncryptionFailed ErrorCode = "QLE7003"

	// System errors (9xxx)
	ErrCodeInternal          ErrorCode = "QLE9001"
	ErrCodeResourceExhausted ErrorCode = "QLE9002"
	ErrCodeServiceUnavailable ErrorCode = "QLE9003"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit its context
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// NetworkError creates a network-related error
func NetworkError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeNetworkUnavailable, message).
		WithSeverity(SeverityError).
		WithSuggestions(
			"Check your network connection",
			"Verify the hosting API endpoint is reachable",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'quill setup' to reconfigure",
		)
}

// AuthError creates an authentication/authorization error
func AuthError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeForbidden, message).
		WithSuggestions(
			"Supply an access token with sufficient scope",
			"Run 'quill setup' to store a token",
		)
}

// NotFoundError creates a path-not-found error; the message always
// carries the requested path.
func NotFoundError(path string) *AppError {
	return New(ErrCodePathNotFound, fmt.Sprintf("no file found at path %s", path)).
		WithContext("path", path)
}

// ValidationError creates a validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning).
		AsRecoverable()
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// TruncateMessage truncates an error summary to maxLen characters,
// never splitting a multi-byte rune.
func TruncateMessage(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}
