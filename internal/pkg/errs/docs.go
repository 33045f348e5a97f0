// Package errs provides standardized error types for the dispatch service.
// It implements a consistent pattern for error creation, formatting, and
// unwrapping that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ValueIsOutOfRangeError: For when a value is outside its valid bounds
//   - ObjectNotFoundError: For when an object cannot be found
//   - PermissionError: For access-denied outcomes that must not be retried
//   - TransientError: For recoverable network/feed failures retried per policy
//   - PartialBroadcastError: For broadcast fan-outs with per-target failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach enables error classification with errors.Is:
// dispatch code distinguishes terminal permission failures from transient
// ones by sentinel, never by string matching.
package errs
