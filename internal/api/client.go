// Package api is the HTTP client for the notification-preferences backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nhle/notifyprefs/internal/model"
)

// AuthError indicates that authentication failed or expired. It is
// returned when the backend answers 401 or 403 so callers can offer a
// login action instead of a generic retry.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%d): %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// errorResponse is the backend's error body shape.
type errorResponse struct {
	Detail string `json:"detail"`
}

// listResponse wraps the notification type list as the backend returns it.
type listResponse struct {
	NotificationTypes []model.NotificationType `json:"notification_types"`
}

// Client is a thin HTTP client for the preferences backend. It handles
// Bearer token authentication and JSON decoding.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new backend client. The baseURL should be the root
// URL of the backend (e.g., https://api.example.com). The token is used
// for Bearer authentication.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetNotificationTypes fetches the notification type list localized for
// the given locale. The returned slice preserves the backend's ordering.
func (c *Client) GetNotificationTypes(
	ctx context.Context,
	locale string,
) ([]model.NotificationType, error) {
	path := "/api/notifications/?lang=" + url.QueryEscape(locale)

	var result listResponse
	if err := c.get(ctx, path, &result); err != nil {
		return nil, err
	}
	return result.NotificationTypes, nil
}

// get performs an HTTP GET request, handles auth, and unmarshals the JSON
// response into result.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, c.baseURL+path, nil,
	)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request GET %s: %w", path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode == http.StatusUnauthorized ||
		resp.StatusCode == http.StatusForbidden {
		return &AuthError{
			StatusCode: resp.StatusCode,
			Message:    detailMessage(respBody, "authentication required"),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf(
			"unexpected status %d on GET %s: %s",
			resp.StatusCode, path, detailMessage(respBody, string(respBody)),
		)
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from GET %s: %w", path, err)
	}

	return nil
}

// detailMessage extracts the backend's "detail" field from an error body,
// falling back to the provided default.
func detailMessage(body []byte, fallback string) string {
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Detail != "" {
		return er.Detail
	}
	return fallback
}
