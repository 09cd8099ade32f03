package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client implements API over the chat server's REST endpoints.
type Client struct {
	base  string
	token string
	inner *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		inner: &http.Client{Timeout: timeout},
	}
}

func (c *Client) SendMessage(ctx context.Context, roomID, content, receiverID string) error {
	body := map[string]any{"content": content}
	if receiverID != "" {
		body["receiver_id"] = receiverID
	}
	_, _, err := c.send(ctx, http.MethodPost, c.roomPath(roomID, "messages"), "", body)
	return err
}

func (c *Client) JoinRoom(ctx context.Context, userID, roomID string) error {
	_, _, err := c.send(ctx, http.MethodPost, c.roomPath(roomID, "users", userID), "", nil)
	return err
}

func (c *Client) LeaveRoom(ctx context.Context, userID, roomID, precondition string) error {
	status, _, err := c.send(ctx, http.MethodDelete, c.roomPath(roomID, "users", userID), precondition, nil)
	if status == http.StatusPreconditionFailed {
		return ErrStalePrecondition
	}
	return err
}

func (c *Client) RoomUserTag(ctx context.Context, roomID, userID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.roomPath(roomID, "users", userID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.inner.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("room user tag: %w: status %d", ErrServerRejected, resp.StatusCode)
	}
	return resp.Header.Get("ETag"), nil
}

func (c *Client) SetRoomAttribute(ctx context.Context, roomID, attributeID, value, receiverID string) error {
	body := map[string]any{"attribute": attributeID, "value": value}
	if receiverID != "" {
		body["receiver_id"] = receiverID
	}
	_, _, err := c.send(ctx, http.MethodPatch, c.roomPath(roomID, "attribute", attributeID), "", body)
	return err
}

func (c *Client) GetTaskForUser(ctx context.Context, userID string) (*TaskDescriptor, error) {
	status, raw, err := c.send(ctx, http.MethodGet, c.base+"/users/"+url.PathEscape(userID)+"/task", "", nil)
	if status == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var td TaskDescriptor
	if err := json.Unmarshal(raw, &td); err != nil {
		return nil, err
	}
	return &td, nil
}

func (c *Client) PostLog(ctx context.Context, roomID, eventType string, payload map[string]any) error {
	body := map[string]any{"event": eventType, "data": payload}
	_, _, err := c.send(ctx, http.MethodPost, c.roomPath(roomID, "logs"), "", body)
	return err
}

func (c *Client) roomPath(roomID string, parts ...string) string {
	p := c.base + "/rooms/" + url.PathEscape(roomID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func (c *Client) send(ctx context.Context, method, endpoint, precondition string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if precondition != "" {
		req.Header.Set("If-Match", precondition)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, nil, readErr
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, raw, nil
	}
	return resp.StatusCode, raw, fmt.Errorf("%s %s: %w: status %d", method, endpoint, ErrServerRejected, resp.StatusCode)
}
