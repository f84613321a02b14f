package models

import (
	"fmt"
)

// UploadStatus represents the transfer status of an upload item
type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"   // Selected, not yet attempted
	StatusUploading UploadStatus = "uploading" // Upload request in flight
	StatusUploaded  UploadStatus = "uploaded"  // Upload succeeded
	StatusFailed    UploadStatus = "failed"    // Upload failed, see Reason
)

// Terminal reports whether no further transition is possible
func (s UploadStatus) Terminal() bool {
	return s == StatusUploaded || s == StatusFailed
}

// UploadItem is one selected file plus its transfer status.
// Items are values: a transition returns a new item and never mutates
// the identity or the file handle.
type UploadItem struct {
	ID     string       `json:"id"`
	File   FileHandle   `json:"-"`
	Status UploadStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

// NewUploadItem creates a pending item
func NewUploadItem(id string, file FileHandle) UploadItem {
	return UploadItem{
		ID:     id,
		File:   file,
		Status: StatusPending,
	}
}

// Transition moves the item forward through
// pending -> uploading -> (uploaded | failed).
// reason is only kept for the failed state.
func (it UploadItem) Transition(to UploadStatus, reason string) (UploadItem, error) {
	if !canTransition(it.Status, to) {
		return it, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, it.Status, to)
	}

	next := it
	next.Status = to
	next.Reason = ""
	if to == StatusFailed {
		if reason == "" {
			reason = "upload failed"
		}
		next.Reason = reason
	}

	return next, nil
}

func canTransition(from, to UploadStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusUploading
	case StatusUploading:
		return to == StatusUploaded || to == StatusFailed
	default:
		return false
	}
}
