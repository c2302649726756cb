package feed

import "fmt"

// DecodeError reports a wire document that cannot be turned into a domain value.
type DecodeError struct {
	Document string
	Field    string
	Cause    error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("decode %s: field %s: %v", e.Document, e.Field, e.Cause)
	}
	return fmt.Sprintf("decode %s: field %s is missing", e.Document, e.Field)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func missing(document, field string) error {
	return &DecodeError{Document: document, Field: field}
}

func invalid(document, field string, cause error) error {
	return &DecodeError{Document: document, Field: field, Cause: cause}
}
