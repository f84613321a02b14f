package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"folio/internal/models"
)

// CreateProject creates a new project from draft. It is never retried.
func (c *Client) CreateProject(ctx context.Context, draft models.ProjectDraft) (*models.Project, error) {
	jsonData, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/projects", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var response struct {
		Message string         `json:"message"`
		Project models.Project `json:"project"`
	}

	if err := c.do(req, &response); err != nil {
		return nil, err
	}

	if response.Project.ID == "" {
		return nil, fmt.Errorf("project creation response has no project id")
	}

	return &response.Project, nil
}

// GetProject retrieves a project by ID
func (c *Client) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID), nil)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := c.do(req, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

// ListProjects retrieves one page of the project listing. Options are
// passed through as query parameters.
func (c *Client) ListProjects(ctx context.Context, opts models.ListOptions) (*models.ProjectPage, error) {
	query := url.Values{}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.Category != "" {
		query.Set("category", opts.Category)
	}
	if opts.SortBy != "" {
		query.Set("sort_by", opts.SortBy)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	path := "/projects"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var page models.ProjectPage
	if err := c.do(req, &page); err != nil {
		return nil, err
	}

	return &page, nil
}
