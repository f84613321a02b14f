// Package submit drives a project submission: the project is created once,
// then every queued file is uploaded to it, one at a time and in order.
// A failed upload is recorded on its item and never stops the others.
package submit

import (
	"context"
	"errors"
	"fmt"

	"folio/internal/models"
	"folio/internal/queue"

	"go.uber.org/zap"
)

// ErrSubmissionCanceled is returned when the context ends before every item
// was attempted. It wraps the context error.
var ErrSubmissionCanceled = errors.New("submission canceled")

// Service is the remote side of a submission
type Service interface {
	CreateProject(ctx context.Context, draft models.ProjectDraft) (*models.Project, error)
	UploadFile(ctx context.Context, projectID string, file models.FileHandle) error
}

// Driver sequences project creation and file uploads
type Driver struct {
	service  Service
	logger   *zap.Logger
	observer Observer
}

// Option configures a Driver
type Option func(*Driver)

// WithLogger sets the diagnostics logger
func WithLogger(logger *zap.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithObserver registers a callback for every submission event
func WithObserver(observer Observer) Option {
	return func(d *Driver) {
		d.observer = observer
	}
}

// NewDriver creates a driver talking to service
func NewDriver(service Service, opts ...Option) *Driver {
	d := &Driver{
		service: service,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit validates draft, creates the project and uploads every queued item.
//
// A *models.ValidationError or *models.CreationError is returned without a
// result; in both cases no upload was attempted and every item is still
// pending. Once the project exists, Submit returns a result even when some
// uploads failed. If ctx ends first, the partial result is returned with an
// error wrapping ErrSubmissionCanceled and the items not yet started stay
// pending. The queue stays sealed after cancellation because the project
// already exists and a second Submit would create another one; the pending
// items can only be sent again by starting over with a fresh queue.
func (d *Driver) Submit(ctx context.Context, draft models.ProjectDraft, q *queue.Queue) (*Result, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if err := q.Seal(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		q.Unseal()
		return nil, fmt.Errorf("%w: %w", ErrSubmissionCanceled, err)
	}

	project, err := d.service.CreateProject(ctx, draft)
	if err == nil && (project == nil || project.ID == "") {
		err = errors.New("service returned no project id")
	}
	if err != nil {
		// Hand the queue back so the whole flow can be retried
		q.Unseal()
		d.logger.Error("project creation failed", zap.String("title", draft.Title), zap.Error(err))
		return nil, &models.CreationError{Err: err}
	}

	logger := d.logger.With(zap.String("project_id", project.ID))
	logger.Info("project created", zap.Int("files", q.Len()))
	d.emit(Event{Kind: EventCreated, ProjectID: project.ID})

	for _, item := range q.Snapshot() {
		if err := ctx.Err(); err != nil {
			logger.Warn("submission canceled", zap.Error(err))
			d.emit(Event{Kind: EventCanceled, ProjectID: project.ID, Err: err})
			return newResult(project, q.Snapshot()), fmt.Errorf("%w: %w", ErrSubmissionCanceled, err)
		}

		if err := d.upload(ctx, logger, project.ID, q, item); err != nil {
			return newResult(project, q.Snapshot()), err
		}
	}

	result := newResult(project, q.Snapshot())
	if failed := len(result.Failed()); failed > 0 {
		logger.Warn("submission completed with failed uploads",
			zap.Int("uploaded", result.Uploaded()),
			zap.Int("failed", failed),
		)
	} else {
		logger.Info("submission completed", zap.Int("uploaded", result.Uploaded()))
	}
	d.emit(Event{Kind: EventDone, ProjectID: project.ID})

	return result, nil
}

// upload drives one item from pending to a terminal status. Only a broken
// state machine is returned as an error; upload failures are recorded on the item.
func (d *Driver) upload(ctx context.Context, logger *zap.Logger, projectID string, q *queue.Queue, item models.UploadItem) error {
	logger = logger.With(
		zap.String("item_id", item.ID),
		zap.String("file", item.File.Name()),
	)

	uploading, err := q.Apply(item.ID, models.StatusUploading, "")
	if err != nil {
		logger.Error("cannot start upload", zap.Error(err))
		return err
	}
	d.emit(Event{Kind: EventItem, ProjectID: projectID, Item: uploading})

	logger.Debug("uploading file", zap.Int64("size", item.File.Size()))
	uploadErr := d.service.UploadFile(ctx, projectID, item.File)

	var finished models.UploadItem
	if uploadErr != nil {
		uerr := &models.UploadError{ItemID: item.ID, File: item.File.Name(), Err: uploadErr}
		finished, err = q.Apply(item.ID, models.StatusFailed, uploadErr.Error())
		logger.Warn("file upload failed", zap.String("reason", finished.Reason), zap.Error(uerr))
	} else {
		finished, err = q.Apply(item.ID, models.StatusUploaded, "")
		logger.Info("file uploaded")
	}
	if err != nil {
		logger.Error("cannot finish upload", zap.Error(err))
		return err
	}
	d.emit(Event{Kind: EventItem, ProjectID: projectID, Item: finished})

	return nil
}

func (d *Driver) emit(e Event) {
	if d.observer != nil {
		d.observer(e)
	}
}
