package ports

import (
	"context"

	"DailyPush/internal/domain"
)

// WeatherSource fetches today's conditions for the configured locality.
type WeatherSource interface {
	Fetch(ctx context.Context) (domain.WeatherRecord, error)
}

// HistorySource fetches "on this day" event strings.
type HistorySource interface {
	Fetch(ctx context.Context) ([]string, error)
}

// TrendingSource fetches the current hot-search list, truncated to the
// digest limit.
type TrendingSource interface {
	Fetch(ctx context.Context) ([]domain.TopicEntry, error)
}

// ImageSource resolves the daily picture URL.
type ImageSource interface {
	Fetch(ctx context.Context) (string, error)
}

// AdviceGenerator produces a short natural-language blurb for a weather
// record.
type AdviceGenerator interface {
	Generate(ctx context.Context, weather domain.WeatherRecord) (string, error)
}

// Renderer turns the composed payload into the message body.
type Renderer interface {
	Render(payload domain.DigestPayload) (string, error)
}

// Pusher delivers the rendered digest and classifies the attempt. The
// outcome is always meaningful; the error only carries detail for logging.
type Pusher interface {
	Push(ctx context.Context, title, content string) (domain.DeliveryOutcome, error)
}

// PushRepository persists one audit row per calendar day.
type PushRepository interface {
	Save(ctx context.Context, record domain.PushRecord) error
	FindByDate(ctx context.Context, pushDate string) (domain.PushRecord, error)
}
