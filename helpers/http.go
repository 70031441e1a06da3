package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Universal HTTP request function
func MakeHTTPRequest[T any](
	ctx context.Context,
	client *http.Client,
	logger *slog.Logger,
	method string,
	fullURL string,
	headers map[string]string,
	body interface{},
) (T, error) {
	var result T

	// JSON is the only body encoding the composer speaks
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return result, err
		}
		bodyReader = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return result, err
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, err
	}

	if logger != nil {
		logger.Debug("HTTP Request", "url", fullURL, "status", resp.StatusCode, "body", string(respBytes))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status, Body: respBytes}
	}

	if err := json.Unmarshal(respBytes, &result); err != nil {
		return result, fmt.Errorf("decode response: %w", err)
	}

	return result, nil
}

// HTTPError is returned by MakeHTTPRequest for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return e.Status + ": " + string(e.Body)
}
