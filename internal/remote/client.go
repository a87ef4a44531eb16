// Package remote implements the HTTP client for the Study Bot service. Every
// call carries the session's bearer credential; any transport error or
// non-2xx status is reported uniformly, since the session never branches on
// specific status codes.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"studybot-client/internal/domain"
)

// DefaultTimeout bounds each remote call when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client talks to the Study Bot HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// History fetches the stored exchanges for this user, oldest first.
func (c *Client) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/chats", "", nil)
	if err != nil {
		return nil, err
	}
	var history []domain.HistoryEntry
	if err := c.do(req, &history); err != nil {
		return nil, fmt.Errorf("fetch chats: %w", err)
	}
	return history, nil
}

// Chat sends one user message and returns the assistant reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	var payload struct {
		Response string `json:"response"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return payload.Response, nil
}

// GenerateQuiz asks the service for a generated quiz and returns the raw
// payload, fences and all; parsing is the caller's concern. An empty topic
// is omitted from the request.
func (c *Client) GenerateQuiz(ctx context.Context, topic string, count int) (string, error) {
	params := url.Values{}
	if topic != "" {
		params.Set("topic", topic)
	}
	params.Set("count", strconv.Itoa(count))

	req, err := c.newRequest(ctx, http.MethodGet, "/generate-quiz?"+params.Encode(), "", nil)
	if err != nil {
		return "", err
	}
	var payload struct {
		Quiz string `json:"quiz"`
	}
	if err := c.do(req, &payload); err != nil {
		return "", fmt.Errorf("generate quiz: %w", err)
	}
	return payload.Quiz, nil
}

// UploadDocument sends a study document for indexing as a multipart upload.
func (c *Client) UploadDocument(ctx context.Context, filename string, payload io.Reader) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, payload); err != nil {
		return fmt.Errorf("read upload payload: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("finish upload form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload-pdf", form.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("upload document: %w", err)
	}
	return nil
}

// Health probes the service's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", "", nil)
	if err != nil {
		return err
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// do executes the request and decodes a JSON body into out when non-nil.
// Any status outside 2xx is a failure regardless of the specific code.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("remote returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
