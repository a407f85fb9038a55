// Package errors provides the classified error primitives used across portfoliobuilder.
//
// Errors carry a category (what part of the build failed), a severity and
// free-form structured context. They are created through a fluent builder:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "copy asset directory").
//		WithContext("source", src).
//		WithContext("target", dst).
//		Build()
//
// The CLI adapter turns any error into a log line, a user-facing message and
// a process exit status.
package errors
