package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

// ImageClient resolves the daily picture. The endpoint either serves the
// image bytes directly (the request URL is the picture) or answers with a
// small JSON body carrying the URL.
type ImageClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.ImageSource = (*ImageClient)(nil)

// NewImageClient wires the endpoint and an optional HTTP client.
func NewImageClient(endpoint string, client *http.Client, logger *slog.Logger) *ImageClient {
	return &ImageClient{
		endpoint: endpoint,
		client:   defaultClient(client),
		logger:   logger,
	}
}

// Fetch returns the image URL on HTTP 200, or an error when the picture is
// unavailable.
func (i *ImageClient) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := i.client.Do(req)
	if err != nil {
		return "", &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &domain.UpstreamRejection{Code: resp.StatusCode, Message: resp.Status}
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var body struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", &domain.ShapeError{Reason: "malformed image body"}
		}
		if strings.TrimSpace(body.URL) == "" {
			return "", &domain.ShapeError{Reason: "missing image url field"}
		}
		return body.URL, nil
	}

	return i.endpoint, nil
}
