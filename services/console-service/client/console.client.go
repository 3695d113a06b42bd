// Package client talks to the courier backend the console runs against.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tanmoy095/LogiSynapse/shared/contracts"
	"github.com/Tanmoy095/LogiSynapse/shared/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoBaseURL = errors.New("backend base URL is not configured")
	ErrNotFound  = errors.New("resource not found")
)

// StatusError is returned for non-2xx answers that carry no usable body.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// ConsoleClient is the backend REST client used by the console workflows.
type ConsoleClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
	log     *zap.Logger
}

func NewConsoleClient(baseURL, token string, timeout time.Duration, log *zap.Logger) *ConsoleClient {
	log = logger.OrNop(log)
	return &ConsoleClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

// UpdateBag sends a sub-bag transfer. A rejection the backend explains in
// JSON comes back as Success=false with its message, not as an error.
func (c *ConsoleClient) UpdateBag(ctx context.Context, req contracts.SubBagTransferRequest) (contracts.UpdateBagResponse, error) {
	var out contracts.UpdateBagResponse
	status, body, err := c.do(ctx, http.MethodPost, "/api/bags/updateBag", req)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &out); err != nil && isSuccess(status) {
			return out, fmt.Errorf("failed to parse updateBag response: %w", err)
		}
	}
	if !isSuccess(status) {
		out.Success = false
		if out.Message == "" {
			return out, &StatusError{Method: http.MethodPost, Path: "/api/bags/updateBag", StatusCode: status}
		}
	}
	return out, nil
}

// GetProfile returns the signed-in staff member.
func (c *ConsoleClient) GetProfile(ctx context.Context) (contracts.UserProfile, error) {
	var out contracts.UserProfile
	err := c.getJSON(ctx, "/api/users/profile", &out)
	return out, err
}

// GetBag returns the bag with the given AWB.
func (c *ConsoleClient) GetBag(ctx context.Context, awb string) (contracts.Bag, error) {
	var out contracts.Bag
	err := c.getJSON(ctx, "/api/bags/"+url.PathEscape(awb), &out)
	return out, err
}

func (c *ConsoleClient) getJSON(ctx context.Context, path string, out interface{}) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if !isSuccess(status) {
		return &StatusError{Method: http.MethodGet, Path: path, StatusCode: status, Message: messageOf(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func (c *ConsoleClient) do(ctx context.Context, method, path string, payload interface{}) (int, []byte, error) {
	if c.BaseURL == "" {
		return 0, nil, ErrNoBaseURL
	}

	//1. Encode the body
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(raw)
	}

	//2. Build the request
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create %s request: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	//3. Send
	start := time.Now()
	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}
	c.log.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func messageOf(body []byte) string {
	var m struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &m) == nil {
		return m.Message
	}
	return ""
}
