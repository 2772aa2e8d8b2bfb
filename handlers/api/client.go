// handlers/api/client.go
package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

// Client talks to the remote notes service. Every function maps one call
// to one HTTP request and decodes the JSON response; there are no retries,
// no caching and no batching.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *fasthttp.Client
}

// NewClient creates a client for the given base URL. A zero timeout means
// requests wait indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http: &fasthttp.Client{
			Name: "notesweb",
		},
	}
}

// WithToken returns a copy of the client that attaches the given bearer
// token to every request. The zero token makes anonymous requests.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Token returns the bearer token the client is bound to.
func (c *Client) Token() string {
	return c.token
}

// errorBody is the JSON shape the API uses for failures.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

func (c *Client) do(method, path string, body, out interface{}) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{
				Kind:    KindUnknown,
				Message: "Failed to encode request",
				Err:     err,
			}
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	var err error
	if c.timeout > 0 {
		err = c.http.DoTimeout(req, resp, c.timeout)
	} else {
		err = c.http.Do(req, resp)
	}
	if err != nil {
		return &APIError{
			Kind:    KindNetwork,
			Message: "Cannot reach the notes service",
			Err:     err,
		}
	}

	status := resp.StatusCode()
	if status >= 400 {
		var eb errorBody
		// A missing or malformed error body falls through to the default text.
		_ = json.Unmarshal(resp.Body(), &eb)
		msg := eb.text()
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status %d", status)
		}
		return &APIError{
			Kind:    kindForStatus(status),
			Status:  status,
			Message: msg,
		}
	}

	if out != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return &APIError{
				Kind:    KindUnknown,
				Status:  status,
				Message: "Invalid response from the notes service",
				Err:     err,
			}
		}
	}

	return nil
}

func (c *Client) get(path string, out interface{}) error {
	return c.do(fasthttp.MethodGet, path, nil, out)
}

func (c *Client) post(path string, body, out interface{}) error {
	return c.do(fasthttp.MethodPost, path, body, out)
}

func (c *Client) put(path string, body, out interface{}) error {
	return c.do(fasthttp.MethodPut, path, body, out)
}

func (c *Client) delete(path string) error {
	return c.do(fasthttp.MethodDelete, path, nil, nil)
}
