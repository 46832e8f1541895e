package sources

import (
	"context"
	"log/slog"
	"net/http"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

// HistoryClient fetches "on this day" events.
type HistoryClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.HistorySource = (*HistoryClient)(nil)

// NewHistoryClient wires the endpoint and an optional HTTP client.
func NewHistoryClient(endpoint string, client *http.Client, logger *slog.Logger) *HistoryClient {
	return &HistoryClient{
		endpoint: endpoint,
		client:   defaultClient(client),
		logger:   logger,
	}
}

// Fetch requires a list-typed "data" field; anything else is a shape error.
func (h *HistoryClient) Fetch(ctx context.Context) ([]string, error) {
	var resp struct {
		Data *[]string `json:"data"`
	}

	if err := getJSON(ctx, h.client, h.endpoint, h.logger, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, &domain.ShapeError{Reason: "missing data list"}
	}

	return *resp.Data, nil
}
