package sources

import (
	"context"
	"log/slog"
	"net/http"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

// MaxTopics bounds the hot-search list carried into the digest.
const MaxTopics = 10

// TrendingClient fetches the current hot-search list.
type TrendingClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.TrendingSource = (*TrendingClient)(nil)

// NewTrendingClient wires the endpoint and an optional HTTP client.
func NewTrendingClient(endpoint string, client *http.Client, logger *slog.Logger) *TrendingClient {
	return &TrendingClient{
		endpoint: endpoint,
		client:   defaultClient(client),
		logger:   logger,
	}
}

// Fetch requires a list-typed "data" field and truncates the result to
// MaxTopics entries.
func (t *TrendingClient) Fetch(ctx context.Context) ([]domain.TopicEntry, error) {
	var resp struct {
		Data *[]domain.TopicEntry `json:"data"`
	}

	if err := getJSON(ctx, t.client, t.endpoint, t.logger, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, &domain.ShapeError{Reason: "missing data list"}
	}

	topics := *resp.Data
	if len(topics) > MaxTopics {
		topics = topics[:MaxTopics]
	}

	return topics, nil
}
