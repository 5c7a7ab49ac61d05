// Package client calls the refine API over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abdulachik/refiner/internal/schema"
)

// FallbackMessage is used when the server supplied no error message.
const FallbackMessage = "API call failed"

// RefinementRequest is the body of POST /refine.
type RefinementRequest struct {
	Text        string `json:"text"`
	Type        string `json:"type"`
	Perspective string `json:"perspective"`
}

// RefinementResult is the success body of POST /refine.
type RefinementResult struct {
	Improved string `json:"improved"`
}

type errorBody struct {
	Error string `json:"error"`
}

type healthBody struct {
	Message string `json:"message"`
}

// Error is the single normalised failure returned by the client. Its message
// is the server-supplied error or FallbackMessage.
type Error struct {
	StatusCode int // 0 when the request never got a response
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client talks to the refine API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the API client.
type Config struct {
	BaseURL    string // e.g. http://localhost:3001/api
	HTTPClient *http.Client
}

// New creates a new API client. No timeout beyond the transport default is
// applied unless an HTTPClient is supplied.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}
}

// Improve sends text for refinement and returns the improved text. The call
// is made once; any failure is returned as *Error.
func (c *Client) Improve(ctx context.Context, text string, kind schema.FieldKind, perspective schema.Perspective) (string, error) {
	body, err := json.Marshal(RefinementRequest{
		Text:        text,
		Type:        string(kind),
		Perspective: string(perspective),
	})
	if err != nil {
		return "", &Error{Message: FallbackMessage, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/refine", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Message: FallbackMessage, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	respBody, status, err := c.do(req)
	if err != nil {
		return "", err
	}

	var result RefinementResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &Error{StatusCode: status, Message: FallbackMessage, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	return result.Improved, nil
}

// Health calls the liveness probe and returns its message.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", &Error{Message: FallbackMessage, Err: fmt.Errorf("create request: %w", err)}
	}

	respBody, status, err := c.do(req)
	if err != nil {
		return "", err
	}

	var health healthBody
	if err := json.Unmarshal(respBody, &health); err != nil {
		return "", &Error{StatusCode: status, Message: FallbackMessage, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return health.Message, nil
}

// do sends req and returns the body of a 2xx response. Everything else is
// normalised to *Error.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &Error{Message: FallbackMessage, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &Error{StatusCode: resp.StatusCode, Message: FallbackMessage, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := FallbackMessage
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return nil, resp.StatusCode, &Error{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Err:        fmt.Errorf("API error (status %d) after %s", resp.StatusCode, time.Since(start).Round(time.Millisecond)),
		}
	}

	return respBody, resp.StatusCode, nil
}
