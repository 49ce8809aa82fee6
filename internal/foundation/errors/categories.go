package errors

import "maps"

// ErrorCategory says which part of a conversion run failed. It decides the
// process exit status once the error reaches the CLI.
type ErrorCategory string

const (
	// CategoryNotFound is a missing input root or explicitly named file.
	CategoryNotFound ErrorCategory = "not_found"
	// CategoryValidation is an input that exists but cannot be parsed:
	// notebook JSON or structure, Python syntax, invalid UTF-8.
	CategoryValidation ErrorCategory = "validation"
	// CategoryConfig is an unusable configuration file or flag combination.
	CategoryConfig ErrorCategory = "config"
	// CategoryFileSystem is a failed source read or page write.
	CategoryFileSystem ErrorCategory = "filesystem"
	// CategoryGit is a failure inspecting the examples repository for Colab links.
	CategoryGit ErrorCategory = "git"
	// CategoryInternal is a bug or an unexpected library failure.
	CategoryInternal ErrorCategory = "internal"
)

// ExitCode is the process exit status for a run that failed with an error of
// this category. Malformed input exits 2, anything else 1.
func (c ErrorCategory) ExitCode() int {
	if c == CategoryValidation {
		return 2
	}
	return 1
}

// ErrorSeverity says how far a failure reaches.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // the whole run stops
	SeverityError   ErrorSeverity = "error"   // one file is skipped
	SeverityWarning ErrorSeverity = "warning" // the page is written without an optional part
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy says whether running again can succeed.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryUserAction RetryStrategy = "user" // after the input or config is fixed
)

// ErrorContext carries structured details such as the offending path or line.
type ErrorContext map[string]any

// Set stores value under key, allocating the map on first use.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

func (c ErrorContext) Get(key string) (any, bool) {
	value, ok := c[key]
	return value, ok
}

// GetString returns the value under key when it is a string.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

func (c ErrorContext) clone() ErrorContext {
	if c == nil {
		return make(ErrorContext)
	}
	return maps.Clone(c)
}
