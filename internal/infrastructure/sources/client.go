package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"DailyPush/internal/domain"
)

const (
	fetchTimeout = 10 * time.Second
	maxBodySize  = 1 << 20
	userAgent    = "DailyPush/1.0"
)

func defaultClient(client *http.Client) *http.Client {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return client
}

// getBody performs one GET and returns the raw body. Transport failures and
// non-2xx statuses are classified into the shared error taxonomy.
func getBody(ctx context.Context, client *http.Client, endpoint string, logger *slog.Logger) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &domain.UpstreamRejection{Code: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	if logger != nil {
		logger.Debug("raw upstream response", "endpoint", endpoint, "bytes", len(body), "body", string(body))
	}

	return body, nil
}

// getJSON performs one GET and decodes the body into v.
func getJSON(ctx context.Context, client *http.Client, endpoint string, logger *slog.Logger, v any) error {
	body, err := getBody(ctx, client, endpoint, logger)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &domain.ShapeError{Reason: fmt.Sprintf("decode body: %v", err)}
	}

	return nil
}
