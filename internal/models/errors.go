package models

import "fmt"

// Error codes returned in API responses and carried by ScrapeError.
const (
	ErrCodeConfig           = "CONFIG_ERROR"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeScrapingFailed   = "SCRAPING_FAILED"
	ErrCodeSolverFailure    = "SOLVER_FAILURE"
	ErrCodeCaptchaExhausted = "CAPTCHA_EXHAUSTED"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// ScrapeError is the error type returned by the scraping pipeline.
// Code classifies the failure so handlers can map it to an HTTP status
// without string matching.
type ScrapeError struct {
	Code    string
	Message string
	Err     error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a ScrapeError wrapping an underlying cause.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// NewCaptchaExhaustedError signals that every captcha attempt was spent
// without reaching the result page.
func NewCaptchaExhaustedError(attempts int) *ScrapeError {
	return &ScrapeError{
		Code:    ErrCodeCaptchaExhausted,
		Message: fmt.Sprintf("captcha not solved after %d attempts", attempts),
	}
}

// NewSolverFailureError signals that the vision solver itself failed.
func NewSolverFailureError(err error) *ScrapeError {
	return &ScrapeError{
		Code:    ErrCodeSolverFailure,
		Message: "captcha solver request failed",
		Err:     err,
	}
}
