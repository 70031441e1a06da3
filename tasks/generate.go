package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"content-ai/helpers"
	"content-ai/models"
)

// ServiceError is a non-2xx answer from the generation service.
type ServiceError struct {
	StatusCode int
	Status     string
	// Detail is the server supplied message, empty when none was sent.
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Detail == "" {
		return "generation service: " + e.Status
	}
	return "generation service: " + e.Status + ": " + e.Detail
}

// TransportError wraps anything that kept a usable answer from arriving:
// connection and DNS failures, unreadable or undecodable bodies.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type Generator struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewGenerator returns a client for the generation endpoint. A zero timeout
// leaves requests unbounded.
func NewGenerator(endpoint string, timeout time.Duration, logger *slog.Logger) *Generator {
	return &Generator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (g *Generator) Endpoint() string {
	return g.endpoint
}

// Generate posts req to the generation service and returns the generated
// post. Errors are either *ServiceError or *TransportError.
func (g *Generator) Generate(ctx context.Context, req models.GenerateRequest) (string, error) {
	resp, err := helpers.MakeHTTPRequest[models.GenerateResponse](
		ctx,
		g.client,
		g.logger,
		http.MethodPost,
		g.endpoint,
		map[string]string{"Content-Type": "application/json"},
		req,
	)
	if err != nil {
		var httpErr *helpers.HTTPError
		if errors.As(err, &httpErr) {
			return "", &ServiceError{
				StatusCode: httpErr.StatusCode,
				Status:     httpErr.Status,
				Detail:     parseDetail(httpErr.Body),
			}
		}
		return "", &TransportError{Err: err}
	}

	return resp.Content, nil
}

// Probe reports whether anything answers on the generation endpoint. Any
// HTTP response counts as reachable.
func (g *Generator) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, g.endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	resp.Body.Close()
	return nil
}

// parseDetail extracts the "detail" field of an error body. Besides a plain
// string it understands the list form used by validation errors
// ([{"msg": "..."}]).
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var detail models.ErrorResponse
	if err := json.Unmarshal(body, &detail); err == nil {
		return detail.Detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Msg != "" {
			msgs = append(msgs, item.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}
