package models

import (
	"errors"
	"fmt"
)

// Queue-related errors
var (
	// ErrItemNotFound is returned when no queued item has the given id
	ErrItemNotFound = errors.New("upload item not found")

	// ErrItemNotPending is returned when removing an item that already left the pending state
	ErrItemNotPending = errors.New("upload item is no longer pending")

	// ErrQueueSealed is returned when the queue is changed or submitted while a submission owns it
	ErrQueueSealed = errors.New("selection queue is sealed by a submission")

	// ErrInvalidTransition is returned for any status change other than
	// pending -> uploading -> (uploaded | failed)
	ErrInvalidTransition = errors.New("invalid upload status transition")
)

// Draft-related errors
var (
	// ErrUnknownCategory is returned when a category is outside the known set
	ErrUnknownCategory = errors.New("unknown category")
)

// ValidationError reports a malformed project draft. It is raised before any
// network call is made.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// CreationError reports that the remote service did not create the project.
// No uploads are attempted after it.
type CreationError struct {
	Err error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("project creation failed: %v", e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// UploadError reports a single failed file upload. It is recorded on the
// item and never aborts the rest of the submission.
type UploadError struct {
	ItemID string
	File   string
	Err    error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %s failed: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
