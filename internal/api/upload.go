package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"folio/internal/models"

	"go.uber.org/zap"
)

// uploadField is the multipart field the service reads the file from
const uploadField = "file"

// ErrUploadStalled means an upload made no progress within the client timeout
var ErrUploadStalled = errors.New("upload stalled")

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// UploadFile sends one file to a project as a single multipart request.
// The file is streamed from disk; it is never retried. A slow upload runs
// as long as it keeps moving; it is aborted with ErrUploadStalled once the
// body or the response stalls for the client timeout.
func (c *Client) UploadFile(ctx context.Context, projectID string, file models.FileHandle) error {
	f, err := file.Open()
	if err != nil {
		return fmt.Errorf("error opening file %s: %w", file.Name(), err)
	}
	defer safelyCloseFile(c.logger, f)

	head, tail, contentType, err := multipartEnvelope(file)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	body := io.MultiReader(bytes.NewReader(head), f, bytes.NewReader(tail))
	if c.timeout > 0 {
		watch := newStallWatch(body, c.timeout, cancel)
		defer watch.stop()
		body = watch
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/projects/"+url.PathEscape(projectID)+"/upload", body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(head)) + file.Size() + int64(len(tail))

	err = c.send(req, nil)
	if err != nil && errors.Is(context.Cause(ctx), ErrUploadStalled) {
		return fmt.Errorf("%w after %s without progress", ErrUploadStalled, c.timeout)
	}
	return err
}

// stallWatch cancels an upload when no body bytes are read for the idle
// period. After the last byte the same period bounds the wait for a response.
type stallWatch struct {
	r     io.Reader
	idle  time.Duration
	timer *time.Timer
}

func newStallWatch(r io.Reader, idle time.Duration, cancel context.CancelCauseFunc) *stallWatch {
	return &stallWatch{
		r:     r,
		idle:  idle,
		timer: time.AfterFunc(idle, func() { cancel(ErrUploadStalled) }),
	}
}

func (w *stallWatch) Read(p []byte) (int, error) {
	n, err := w.r.Read(p)
	if n > 0 {
		w.timer.Reset(w.idle)
	}
	return n, err
}

func (w *stallWatch) stop() {
	w.timer.Stop()
}

// multipartEnvelope renders the bytes that go before and after the file
// content so the request length is known without buffering the file
func multipartEnvelope(file models.FileHandle) (head, tail []byte, contentType string, err error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	partType := file.ContentType()
	if partType == "" {
		partType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		uploadField, quoteEscaper.Replace(file.Name())))
	h.Set("Content-Type", partType)

	if _, err := writer.CreatePart(h); err != nil {
		return nil, nil, "", fmt.Errorf("error creating form file: %w", err)
	}
	headLen := buf.Len()

	if err := writer.Close(); err != nil {
		return nil, nil, "", fmt.Errorf("error closing multipart writer: %w", err)
	}

	all := buf.Bytes()
	return all[:headLen], all[headLen:], writer.FormDataContentType(), nil
}

// safelyCloseFile safely closes a file
func safelyCloseFile(logger *zap.Logger, f io.Closer) {
	if err := f.Close(); err != nil {
		logger.Warn("failed to close file handle", zap.Error(err))
	}
}
