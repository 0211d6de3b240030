package homework

import "fmt"

// StatusCodeError is returned when the review API answers with anything but 200.
type StatusCodeError struct {
	Code int
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("homework API responded with status %d", e.Code)
}

// TransportError wraps a failure to reach the review API at all.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("homework API %s unreachable: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 200 response does not carry valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("homework API body is not valid JSON: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ResponseTypeError reports a value of the wrong JSON type.
type ResponseTypeError struct {
	Field string
	Want  string
	Got   any
}

func (e *ResponseTypeError) Error() string {
	return fmt.Sprintf("%s must be %s, got %T", e.Field, e.Want, e.Got)
}

type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("response has no %q key", e.Key)
}

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("homework record has no %q field", e.Field)
}

// UnknownStatusError carries a status value that has no verdict.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}
