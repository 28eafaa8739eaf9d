// Package errors provides the classified error primitives used across blogbuilder.
//
// A ClassifiedError carries a category (what kind of failure), a severity (how far it
// propagates) and a small context map (which file, which slug). Errors are built with
// the fluent builder:
//
//	err := errors.NewError(errors.CategoryContent, "invalid front matter").
//		WithContext("file", "2024-01-05-my-post").
//		Build()
//
// The CLI and HTTP adapters translate categories into exit codes and status codes.
package errors
