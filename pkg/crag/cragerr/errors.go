// Package cragerr defines the failure taxonomy for the ask pipeline.
// Every stage failure aborts the remaining stages; no partial response
// is ever returned.
package cragerr

import (
	"errors"
	"fmt"
)

var (
	// ErrRetrieval signals the vector index was unreachable or the
	// similarity query failed. Never retried inside the pipeline.
	ErrRetrieval = errors.New("retrieval failure")

	// ErrGeneration signals the model call itself failed (network,
	// timeout, non-200). Never retried inside the pipeline.
	ErrGeneration = errors.New("generation failure")

	// ErrGenerationParse signals the model output violated the strict
	// contract even after bracket-matching recovery. Surfaced as a
	// user-facing "please retry", never coerced into a best-guess answer.
	ErrGenerationParse = errors.New("generation parse failure")

	// ErrValidation signals a malformed request shape. Rejected before
	// any pipeline stage runs.
	ErrValidation = errors.New("validation error")

	// ErrAuthorization signals a missing identity or a subject not owned
	// by the caller. Rejected before retrieval.
	ErrAuthorization = errors.New("authorization error")

	// ErrVoiceSession signals a live session error at any bridge stage.
	// The bridge emits an error event and tears the session down.
	ErrVoiceSession = errors.New("voice session error")

	// ErrQuotaExceeded signals the caller hit the daily ask limit.
	ErrQuotaExceeded = errors.New("daily ask limit exceeded")
)

func Retrieval(err error) error {
	return fmt.Errorf("%w: %v", ErrRetrieval, err)
}

func Generation(err error) error {
	return fmt.Errorf("%w: %v", ErrGeneration, err)
}

func GenerationParse(reason string) error {
	return fmt.Errorf("%w: %s", ErrGenerationParse, reason)
}

func Validation(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

func Authorization(reason string) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, reason)
}

func VoiceSession(err error) error {
	return fmt.Errorf("%w: %v", ErrVoiceSession, err)
}
