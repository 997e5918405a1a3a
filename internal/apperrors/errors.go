package apperrors

import "errors"

// Sentinel errors for the three failure classes the fee core can produce.
// Wrap with fmt.Errorf("...: %w", Err...) and check with errors.Is. None of
// these are retryable; the caller must correct the request. Infrastructure
// failures are not wrapped and pass through as-is.
var (
	// ErrValidation marks malformed input: negative amounts, discount greater
	// than the base amount, non-positive installment counts.
	ErrValidation = errors.New("validation error")

	// ErrInvalidOperation marks a state-incompatible request: payment against
	// a terminal fee, overpayment past the guard.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrNotFound marks an unknown record id.
	ErrNotFound = errors.New("not found")
)
