// Package errs provides the typed errors shared by the relay service.
//
// Every error type follows the same shape: a sentinel (ErrValueIsRequired, ...),
// a struct carrying the offending parameter, constructors with and without a cause,
// Error() for the message and Unwrap() returning the sentinel so callers can
// classify failures with errors.Is.
//
// Domain constructors join these errors with errors.Join, so one failed
// construction reports every invalid field at once.
package errs
