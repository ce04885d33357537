package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrOrgNotFound        = fmt.Errorf("organization not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// ErrAborted signals that the operator declined the confirmation gate.
	ErrAborted = fmt.Errorf("aborted by operator")
)
