package services

import "errors"

// Failure taxonomy for the scan pipeline. Controllers map these onto HTTP
// statuses in one place; nothing from the external model or the store is
// forwarded to the client verbatim.
var (
	// ErrQuotaExceeded is returned when a non-admin user has used up the
	// daily scan allowance for their local day.
	ErrQuotaExceeded = errors.New("daily scan limit reached")
	// ErrMalformedResponse is returned when the model's output fails the
	// shape contract. The root cause is logged server-side only.
	ErrMalformedResponse = errors.New("model response missing required fields")
	// ErrMisconfigured is returned when a required server secret is absent.
	ErrMisconfigured = errors.New("server misconfiguration")
	// ErrInvalidImage is returned for payloads that are not a supported
	// image data URI.
	ErrInvalidImage = errors.New("invalid image format")
	// ErrImageTooLarge is returned when the image payload exceeds the size cap.
	ErrImageTooLarge = errors.New("image too large")
	// ErrContextTooLong is returned when the free-text context exceeds 500 characters.
	ErrContextTooLong = errors.New("context too long (max 500 characters)")
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("scan not found")
)
