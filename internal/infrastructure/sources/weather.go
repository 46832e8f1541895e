package sources

import (
	"context"
	"log/slog"
	"net/http"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

// WeatherClient fetches today's conditions from the weather endpoint.
type WeatherClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.WeatherSource = (*WeatherClient)(nil)

// NewWeatherClient wires the endpoint (with locality already applied) and an
// optional HTTP client.
func NewWeatherClient(endpoint string, client *http.Client, logger *slog.Logger) *WeatherClient {
	return &WeatherClient{
		endpoint: endpoint,
		client:   defaultClient(client),
		logger:   logger,
	}
}

// Fetch performs a single attempt; the endpoint signals success with code 1
// and carries the record under "data".
func (w *WeatherClient) Fetch(ctx context.Context) (domain.WeatherRecord, error) {
	var resp struct {
		Code    int                   `json:"code"`
		Message string                `json:"message"`
		Data    *domain.WeatherRecord `json:"data"`
	}

	if err := getJSON(ctx, w.client, w.endpoint, w.logger, &resp); err != nil {
		return domain.WeatherRecord{}, err
	}

	if resp.Code != 1 {
		return domain.WeatherRecord{}, &domain.UpstreamRejection{Code: resp.Code, Message: resp.Message}
	}
	if resp.Data == nil {
		return domain.WeatherRecord{}, &domain.ShapeError{Reason: "missing data object"}
	}

	record := *resp.Data
	record.FillUnknown()
	return record, nil
}
