package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Session errors
	ErrNotSignedIn        = errors.New("not signed in")
	ErrVerifierNotDefined = errors.New("token verifier is not configured")

	// Attachment errors
	ErrStorageNotConfigured = errors.New("attachment storage is not configured")
)

// Context keys for error values
const (
	SubjectKey = "sub"
	TaskIDKey  = "task_id"
	QueryKey   = "query"
)
