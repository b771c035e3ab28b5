// Package errors provides the classified error primitives used across sitegen.
//
// A ClassifiedError carries a broad category (config, template, filesystem, ...),
// a severity and structured context. Errors are built with the fluent
// ErrorBuilder and turned into exit codes and stderr output by CLIErrorAdapter.
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryTemplate, "failed to read template").
//		WithContext("path", templatePath).
//		Build()
package errors
