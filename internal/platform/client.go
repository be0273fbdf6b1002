// Package platform is a REST client for the data-science platform under
// test. It exposes one method per upstream operation (projects, runs,
// datasets, files, workspaces, environments, hardware tiers, models,
// admin introspection) on top of a single request primitive.
//
// The wire shapes here mirror what the platform returns but are not this
// repository's contract; the platform owns them. Every method makes exactly
// one attempt per invocation - retry and polling policy live in the harness
// package, not here.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"uatharness/internal/config"
	"uatharness/pkg/logging"
)

const apiKeyHeader = "X-API-Key"

// maxErrorBodyBytes caps how much of an error response body is retained.
const maxErrorBodyBytes = 4096

// Client talks to the platform REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a platform client from the harness configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.Host, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the platform base URL the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TextResponse is returned for 2xx responses whose body is not JSON.
type TextResponse struct {
	Text       string `json:"text_response"`
	StatusCode int    `json:"status_code"`
}

// do performs a single request against the platform API. The body, when
// non-nil, is JSON-encoded; the response is decoded into out when out is
// non-nil. A 2xx response with a non-JSON body decodes into a TextResponse
// if out points to one, otherwise the body is discarded.
//
// All failures come back as errors - a non-2xx status yields an *APIError
// carrying the status code and response body, transport failures are
// wrapped. Nothing at this layer retries.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.Debug("platform", "%s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, method, path, out)
}

// doMultipart performs a single multipart upload request. The file content
// is streamed into the given form field; extra fields are added verbatim.
func (c *Client) doMultipart(ctx context.Context, method, path, fieldName, fileName string, content io.Reader, fields map[string]string, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return fmt.Errorf("failed to create multipart field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("failed to write multipart content: %w", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write multipart field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	logging.Debug("platform", "%s %s (multipart, %d bytes)", method, path, buf.Len())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	return c.decodeResponse(resp, method, path, out)
}

func (c *Client) decodeResponse(resp *http.Response, method, path string, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyText, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(bodyText)),
			Method:     method,
			Path:       path,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		// Some endpoints answer 2xx with plain text. Callers that can
		// handle that pass a *TextResponse or a generic map.
		switch target := out.(type) {
		case *TextResponse:
			target.Text = string(raw)
			target.StatusCode = resp.StatusCode
			return nil
		case *map[string]interface{}:
			*target = map[string]interface{}{
				"text_response": string(raw),
				"status_code":   resp.StatusCode,
			}
			return nil
		}
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

// Request performs an arbitrary request and returns the decoded JSON body
// as a generic map, or a {text_response, status_code} map for 2xx non-JSON
// bodies. This is the escape hatch the stress tester and ad hoc admin
// checks use when no typed method exists.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (map[string]interface{}, error) {
	var result map[string]interface{}
	if err := c.do(ctx, method, path, nil, body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func escapePathSegment(s string) string {
	return url.PathEscape(s)
}

// escapeFilePath escapes a slash-separated file path segment by
// segment so nested paths keep their separators.
func escapeFilePath(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
