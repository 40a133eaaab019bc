package entities

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failed generation so the caller can show an
// actionable message. No code triggers an automatic retry.
type ErrorCode string

const (
	// ErrCodeInvalidCredential means the API key was empty or malformed.
	ErrCodeInvalidCredential ErrorCode = "invalid_credential"
	// ErrCodeNoImageProduced means the model answered with text only.
	ErrCodeNoImageProduced ErrorCode = "no_image_produced"
	// ErrCodeAuthorizationDenied means the provider rejected the key (403).
	ErrCodeAuthorizationDenied ErrorCode = "authorization_denied"
	// ErrCodeRateLimited means the provider is throttling (429).
	ErrCodeRateLimited ErrorCode = "rate_limited"
	// ErrCodeInvalidRequest means the provider rejected the payload (400).
	ErrCodeInvalidRequest ErrorCode = "invalid_request"
	// ErrCodeProvider is every other provider failure, message verbatim.
	ErrCodeProvider ErrorCode = "provider_error"
	// ErrCodeFileRead means an upload could not be read or decoded.
	ErrCodeFileRead ErrorCode = "file_read_error"
)

// GenerationError is the classified failure of a try-on generation.
type GenerationError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func NewGenerationError(code ErrorCode, message string, err error) *GenerationError {
	return &GenerationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the classification from an error chain, defaulting to
// ErrCodeProvider for unclassified failures.
func CodeOf(err error) ErrorCode {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Code
	}
	return ErrCodeProvider
}
