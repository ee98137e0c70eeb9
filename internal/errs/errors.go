package errs

import (
	"errors"
	"fmt"
)

// Process exit codes for each failure kind.
const (
	ExitOK                = 0
	ExitFailure           = 1
	ExitNotFound          = 2
	ExitMissingCredential = 3
	ExitAPICall           = 4
	ExitPayloadTooLarge   = 5
)

// NotFoundError is returned when an input file does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

// MissingCredentialError is returned when the API key variable is unset.
type MissingCredentialError struct {
	Variable string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: environment variable %s is not set", e.Variable)
}

// ApiCallError wraps any failure talking to the hosted model.
type ApiCallError struct {
	Provider string
	Model    string
	Err      error
}

func (e *ApiCallError) Error() string {
	return fmt.Sprintf("%s call to model %s failed: %v", e.Provider, e.Model, e.Err)
}

func (e *ApiCallError) Unwrap() error {
	return e.Err
}

// ParseError records a model response that is not a JSON object.
// It is carried inside extraction results and never returned from a pipeline.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse response into JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PayloadTooLargeError is returned when an encoded image exceeds the request limit.
type PayloadTooLargeError struct {
	Path  string
	Size  int
	Limit int
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("image %s encodes to %d bytes, limit is %d", e.Path, e.Size, e.Limit)
}

// ExitCode maps an error returned by a pipeline to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		notFound   *NotFoundError
		credential *MissingCredentialError
		apiCall    *ApiCallError
		tooLarge   *PayloadTooLargeError
	)

	switch {
	case errors.As(err, &notFound):
		return ExitNotFound
	case errors.As(err, &credential):
		return ExitMissingCredential
	case errors.As(err, &apiCall):
		return ExitAPICall
	case errors.As(err, &tooLarge):
		return ExitPayloadTooLarge
	default:
		return ExitFailure
	}
}
