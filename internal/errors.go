package internal

import (
	"errors"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

var (
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequestBody  = errors.New("invalid request body")

	// Form Errors
	ErrFormNotFound     = errors.New("form not found")
	ErrFormNotDraft     = errors.New("form is not in draft status")
	ErrFormNotPublished = errors.New("form is not accepting responses")
	ErrStatusTransition = errors.New("invalid form status transition")
	ErrSectionNotFound  = errors.New("section not found")

	// Question Errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrQuestionTypeMismatch = errors.New("question type does not match the expected type")
	ErrValidationFailed     = errors.New("validation failed")

	// Response Errors
	ErrResponseNotFound = errors.New("response not found")
	ErrAlreadySubmitted = errors.New("session has already been submitted")
	ErrSubmitInProgress = errors.New("a submit attempt is already in progress")
	ErrSessionNotFound  = errors.New("response session not found")
	ErrResponseMismatch = errors.New("response does not belong to the requested form")

	// Suggestion Errors
	ErrSuggestionUnavailable = errors.New("question suggestion service unavailable")
	ErrSuggestionMalformed   = errors.New("question suggestion response was malformed")

	// Export Errors
	ErrExportFailed = errors.New("failed to export responses")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")
	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem("invalid request body")

	// Form Errors
	case errors.Is(err, ErrFormNotFound):
		return problem.NewNotFoundProblem("form not found")
	case errors.Is(err, ErrFormNotDraft):
		return problem.NewValidateProblem("form is not in draft status")
	case errors.Is(err, ErrFormNotPublished):
		return problem.NewValidateProblem("form is not accepting responses")
	case errors.Is(err, ErrStatusTransition):
		return problem.NewValidateProblem("invalid form status transition")
	case errors.Is(err, ErrSectionNotFound):
		return problem.NewNotFoundProblem("section not found")

	// Question Errors
	case errors.Is(err, ErrQuestionNotFound):
		return problem.NewNotFoundProblem("question not found")
	case errors.Is(err, ErrQuestionTypeMismatch):
		return problem.NewValidateProblem("question type does not match the expected type")

	// Response Errors
	case errors.Is(err, ErrResponseNotFound):
		return problem.NewNotFoundProblem("response not found")
	case errors.Is(err, ErrSessionNotFound):
		return problem.NewNotFoundProblem("response session not found")
	case errors.Is(err, ErrAlreadySubmitted):
		return problem.NewValidateProblem("session has already been submitted")
	case errors.Is(err, ErrSubmitInProgress):
		return problem.NewValidateProblem("a submit attempt is already in progress")
	case errors.Is(err, ErrResponseMismatch):
		return problem.NewValidateProblem("response does not belong to the requested form")

	// Validation Errors
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem("validation failed")

	// Suggestion Errors
	case errors.Is(err, ErrSuggestionUnavailable):
		return problem.NewInternalServerProblem("question suggestion service unavailable")
	case errors.Is(err, ErrSuggestionMalformed):
		return problem.NewInternalServerProblem("question suggestion response was malformed")

	// Export Errors
	case errors.Is(err, ErrExportFailed):
		return problem.NewInternalServerProblem("failed to export responses")
	}
	return problem.Problem{}
}
