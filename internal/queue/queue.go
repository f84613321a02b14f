// Package queue holds the ordered selection of files waiting to be uploaded.
package queue

import (
	"fmt"
	"slices"
	"sync"

	"folio/internal/models"

	"github.com/google/uuid"
)

// Queue is an ordered, in-memory list of upload items.
//
// Every change publishes a new slice; a published slice is never written
// again, so a snapshot taken by an observer can never show a half-updated
// item.
type Queue struct {
	mu     sync.RWMutex
	items  []models.UploadItem
	sealed bool
	newID  func() string
}

// New creates an empty queue that mints random UUIDs for item ids
func New() *Queue {
	return NewWithIDs(uuid.NewString)
}

// NewWithIDs creates an empty queue using gen to mint item ids.
// gen must never return the same id twice.
func NewWithIDs(gen func() string) *Queue {
	return &Queue{newID: gen}
}

// Add appends one pending item per file, preserving order.
// Identical files are accepted as distinct items.
func (q *Queue) Add(files ...models.FileHandle) ([]models.UploadItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return nil, models.ErrQueueSealed
	}

	added := make([]models.UploadItem, 0, len(files))
	for _, f := range files {
		added = append(added, models.NewUploadItem(q.newID(), f))
	}

	next := make([]models.UploadItem, 0, len(q.items)+len(added))
	next = append(next, q.items...)
	next = append(next, added...)
	q.items = next

	return added, nil
}

// Remove drops the pending item with the given id
func (q *Queue) Remove(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return models.ErrQueueSealed
	}

	idx := q.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", models.ErrItemNotFound, id)
	}
	if q.items[idx].Status != models.StatusPending {
		return fmt.Errorf("%w: %s is %s", models.ErrItemNotPending, id, q.items[idx].Status)
	}

	next := make([]models.UploadItem, 0, len(q.items)-1)
	next = append(next, q.items[:idx]...)
	next = append(next, q.items[idx+1:]...)
	q.items = next

	return nil
}

// Snapshot returns the items in insertion order
func (q *Queue) Snapshot() []models.UploadItem {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return slices.Clone(q.items)
}

// Len returns the number of queued items
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Get returns the item with the given id
func (q *Queue) Get(id string) (models.UploadItem, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	idx := q.indexOf(id)
	if idx < 0 {
		return models.UploadItem{}, false
	}
	return q.items[idx], true
}

// Apply moves the item with the given id to status and publishes the new list.
// It is the only way item statuses change.
func (q *Queue) Apply(id string, to models.UploadStatus, reason string) (models.UploadItem, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexOf(id)
	if idx < 0 {
		return models.UploadItem{}, fmt.Errorf("%w: %s", models.ErrItemNotFound, id)
	}

	updated, err := q.items[idx].Transition(to, reason)
	if err != nil {
		return q.items[idx], err
	}

	next := slices.Clone(q.items)
	next[idx] = updated
	q.items = next

	return updated, nil
}

// Seal hands the queue over to a submission. Add and Remove are rejected
// until Unseal is called.
func (q *Queue) Seal() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return models.ErrQueueSealed
	}
	q.sealed = true
	return nil
}

// Unseal returns the queue to the user, e.g. after a failed creation
func (q *Queue) Unseal() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sealed = false
}

// Sealed reports whether a submission owns the queue
func (q *Queue) Sealed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.sealed
}

func (q *Queue) indexOf(id string) int {
	return slices.IndexFunc(q.items, func(it models.UploadItem) bool {
		return it.ID == id
	})
}
