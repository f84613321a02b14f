package submit

import (
	"folio/internal/models"
)

// EventKind identifies a submission event
type EventKind string

const (
	EventCreated  EventKind = "created"  // Project exists, uploads about to start
	EventItem     EventKind = "item"     // An item changed status
	EventCanceled EventKind = "canceled" // Context ended, remaining items skipped
	EventDone     EventKind = "done"     // Every item reached a terminal status
)

// Event is delivered to the observer after the queue snapshot reflecting it
// has been published.
type Event struct {
	Kind      EventKind
	ProjectID string
	Item      models.UploadItem
	Err       error
}

// Observer is called synchronously on the submitting goroutine
type Observer func(Event)

// Result is the outcome of a submission whose project was created
type Result struct {
	ProjectID string
	Project   *models.Project
	Items     []models.UploadItem
	Outcomes  map[string]models.UploadStatus
}

func newResult(project *models.Project, items []models.UploadItem) *Result {
	outcomes := make(map[string]models.UploadStatus, len(items))
	for _, it := range items {
		outcomes[it.ID] = it.Status
	}
	return &Result{
		ProjectID: project.ID,
		Project:   project,
		Items:     items,
		Outcomes:  outcomes,
	}
}

// Uploaded counts the items that were transferred
func (r *Result) Uploaded() int {
	n := 0
	for _, it := range r.Items {
		if it.Status == models.StatusUploaded {
			n++
		}
	}
	return n
}

// Failed returns the items whose upload failed, in queue order
func (r *Result) Failed() []models.UploadItem {
	var failed []models.UploadItem
	for _, it := range r.Items {
		if it.Status == models.StatusFailed {
			failed = append(failed, it)
		}
	}
	return failed
}

// Partial reports a created project with at least one failed upload
func (r *Result) Partial() bool {
	return len(r.Failed()) > 0
}

// UploadedBytes sums the sizes of the transferred files
func (r *Result) UploadedBytes() int64 {
	var total int64
	for _, it := range r.Items {
		if it.Status == models.StatusUploaded {
			total += it.File.Size()
		}
	}
	return total
}
