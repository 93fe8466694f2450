// Package backend is the HTTP client for the remote retail REST backend.
//
// Every request carries the bearer token of the Session the client was built
// with. Failures come back in two shapes: transport failures wrap
// ErrTransport, non-2xx responses are returned as *APIError.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/ridloal/retail-admin-console/internal/platform/session"
)

var ErrTransport = errors.New("backend unreachable")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// FirstError returns the first field validation message, falling back to
// Message. Field keys are visited in sorted order so the result is stable.
func (e *APIError) FirstError() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if msgs := e.Errors[k]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return e.Message
}

// Message extracts the user-facing text of any error returned by the client,
// using fallback for transport failures and unknown errors.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.FirstError() != "" {
		return apiErr.FirstError()
	}
	return fallback
}

// FilePart is an optional file attached to a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    *session.Session
}

func NewClient(baseURL string, timeout time.Duration, sess *session.Session) *Client {
	if sess == nil {
		sess = session.New()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Session: sess,
	}
}

// Do sends a JSON request. body may be nil; out may be nil when the response
// body is not needed.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			logger.Error("Backend.%s %s: marshal failed", err, method, path)
			return fmt.Errorf("failed to marshal request for %s: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		logger.Error("Backend.%s %s: NewRequest failed", err, method, path)
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	c.setHeaders(req, false)
	return c.send(req, out)
}

// DoMultipart posts form fields plus an optional file as multipart/form-data.
// Content-Type is left to the multipart writer so the boundary is correct.
func (c *Client) DoMultipart(ctx context.Context, path string, fields map[string]string, file *FilePart, out interface{}) error {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	if file != nil && file.Content != nil {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("failed to copy form file: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, buf)
	if err != nil {
		logger.Error("Backend.DoMultipart "+path+": NewRequest failed", err)
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	c.setHeaders(req, true)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(req, out)
}

func (c *Client) setHeaders(req *http.Request, multipartBody bool) {
	req.Header.Set("Accept", "application/json")
	if !multipartBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) send(req *http.Request, out interface{}) error {
	path := req.URL.Path
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logger.Error("Backend.%s %s: HTTPClient.Do failed", err, req.Method, path)
		return fmt.Errorf("%w: %s %s: %v", ErrTransport, req.Method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		// Body may be empty or not JSON; the status alone is still an answer.
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("Error %d", resp.StatusCode)
		}
		logger.Warn("Backend.%s %s: status %d - %s", req.Method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		logger.Error("Backend.%s %s: JSON decode failed", err, req.Method, path)
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// DecodeList accepts both a bare JSON array and a {"data": [...]} envelope.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}
	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return list, nil
	}
	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode list envelope: %w", err)
	}
	if envelope.Data == nil {
		return []T{}, nil
	}
	return envelope.Data, nil
}

// GetList fetches path and decodes it with DecodeList.
func GetList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return DecodeList[T](raw)
}
