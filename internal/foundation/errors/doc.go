// Package errors provides the classified error type used across mdxgen.
//
// Errors carry a category (not_found, validation, filesystem, ...), a severity
// and free-form context. The batch orchestrator uses the category to decide
// between aborting a run (missing roots) and skipping a single file
// (malformed input); the CLI adapter maps categories to exit codes.
//
//	err := errors.MalformedInputError("invalid notebook JSON").
//		WithContext("path", path).
//		Build()
package errors
