package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"folio/internal/models"
)

// GetUser fetches a user's public profile and projects
func (c *Client) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpdateUser updates the profile's text attributes
func (c *Client) UpdateUser(ctx context.Context, userID string, update models.ProfileUpdate) (*models.UserProfile, error) {
	jsonData, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var response struct {
		Message string             `json:"message"`
		User    models.UserProfile `json:"user"`
	}

	if err := c.do(req, &response); err != nil {
		return nil, err
	}

	return &response.User, nil
}

// CurrentUser returns the profile the session token belongs to
func (c *Client) CurrentUser(ctx context.Context) (*models.UserProfile, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/current_user", nil)
	if err != nil {
		return nil, err
	}

	var response struct {
		User models.UserProfile `json:"user"`
	}
	if err := c.do(req, &response); err != nil {
		return nil, err
	}

	return &response.User, nil
}
