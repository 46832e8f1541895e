package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

// PipelineDeps wires all driven adapters into the daily push run.
type PipelineDeps struct {
	Weather    ports.WeatherSource
	History    ports.HistorySource
	Trending   ports.TrendingSource
	Image      ports.ImageSource
	Advisor    ports.AdviceGenerator
	Renderer   ports.Renderer
	Pusher     ports.Pusher
	Repository ports.PushRepository
	Clock      func() time.Time
	Title      string
	Logger     *slog.Logger
}

// Pipeline implements the daily digest workflow: fetch every source with its
// failure contained, compose one payload, deliver it, and record the outcome.
type Pipeline struct {
	weather    ports.WeatherSource
	history    ports.HistorySource
	trending   ports.TrendingSource
	image      ports.ImageSource
	advisor    ports.AdviceGenerator
	renderer   ports.Renderer
	pusher     ports.Pusher
	repository ports.PushRepository
	clock      func() time.Time
	title      string
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		weather:    deps.Weather,
		history:    deps.History,
		trending:   deps.Trending,
		image:      deps.Image,
		advisor:    deps.Advisor,
		renderer:   deps.Renderer,
		pusher:     deps.Pusher,
		repository: deps.Repository,
		clock:      clock,
		title:      deps.Title,
		logger:     deps.Logger,
	}
}

// Run executes one full digest cycle. Source failures never abort the run;
// the worst case is a fully-defaulted payload recorded with status failed.
func (p *Pipeline) Run(ctx context.Context) error {
	now := p.clock()
	status := domain.NewServiceStatus()

	weather := resolve(ctx, status, domain.SourceWeather, p.logger,
		func(ctx context.Context) (domain.WeatherRecord, error) {
			if p.weather == nil {
				return domain.WeatherRecord{}, fmt.Errorf("weather source not configured")
			}
			return p.weather.Fetch(ctx)
		}, domain.DefaultWeather())

	history := resolve(ctx, status, domain.SourceHistory, p.logger,
		func(ctx context.Context) ([]string, error) {
			if p.history == nil {
				return nil, fmt.Errorf("history source not configured")
			}
			return p.history.Fetch(ctx)
		}, domain.DefaultHistory())

	topics := resolve(ctx, status, domain.SourceTrending, p.logger,
		func(ctx context.Context) ([]domain.TopicEntry, error) {
			if p.trending == nil {
				return nil, fmt.Errorf("trending source not configured")
			}
			return p.trending.Fetch(ctx)
		}, domain.DefaultTopics())

	image := resolve(ctx, status, domain.SourceImage, p.logger,
		func(ctx context.Context) (string, error) {
			if p.image == nil {
				return "", fmt.Errorf("image source not configured")
			}
			return p.image.Fetch(ctx)
		}, "")

	advice := p.generateAdvice(ctx, status, weather)

	payload := Compose(now, weather, advice, history, topics, image, status)

	record, err := buildRecord(payload)
	if err != nil {
		return fmt.Errorf("build push record: %w", err)
	}

	record.Status = p.deliver(ctx, payload)

	p.persist(ctx, record)

	succeeded, failed := status.Counts()
	p.info("run complete",
		"push_date", record.PushDate,
		"status", string(record.Status),
		"sources_ok", succeeded,
		"sources_failed", failed)

	return nil
}

// resolve runs one source to completion. Any error stays inside this call:
// it decays into the source's default value and a failed status entry.
func resolve[T any](
	ctx context.Context,
	status domain.ServiceStatus,
	src domain.Source,
	logger *slog.Logger,
	fetch func(context.Context) (T, error),
	fallback T,
) domain.SourceResult[T] {
	value, err := fetch(ctx)
	if err != nil {
		if logger != nil {
			logger.Warn("source fell back to default", "source", string(src), "error", err)
		}
		status.MarkFailed(src)
		return domain.Fallback(fallback)
	}

	status.MarkSuccess(src)
	return domain.Ok(value)
}

// generateAdvice gates the generation call on weather success: advising on a
// defaulted record is meaningless, so a weather failure short-circuits to
// the fixed fallback string.
func (p *Pipeline) generateAdvice(ctx context.Context, status domain.ServiceStatus, weather domain.SourceResult[domain.WeatherRecord]) domain.SourceResult[string] {
	if weather.Degraded || p.advisor == nil {
		if weather.Degraded {
			p.info("advice generation skipped", "reason", "weather unavailable")
		}
		status.MarkFailed(domain.SourceAdvice)
		return domain.Fallback(domain.DefaultAdvice)
	}

	return resolve(ctx, status, domain.SourceAdvice, p.logger,
		func(ctx context.Context) (string, error) {
			return p.advisor.Generate(ctx, weather.Value)
		}, domain.DefaultAdvice)
}

// Compose is the aggregator: a pure, total function over the five source
// results and the status snapshot. Every Ok/Default combination yields a
// fully-populated payload.
func Compose(
	now time.Time,
	weather domain.SourceResult[domain.WeatherRecord],
	advice domain.SourceResult[string],
	history domain.SourceResult[[]string],
	topics domain.SourceResult[[]domain.TopicEntry],
	image domain.SourceResult[string],
	status domain.ServiceStatus,
) domain.DigestPayload {
	return domain.DigestPayload{
		PushDate: now.Format("2006-01-02"),
		PushTime: now.Format("15:04:05"),
		Weather:  weather.Value,
		Advice:   advice.Value,
		History:  history.Value,
		Topics:   topics.Value,
		ImageURL: image.Value,
		Status:   status.Clone(),
	}
}

func buildRecord(payload domain.DigestPayload) (domain.PushRecord, error) {
	weatherJSON, err := json.Marshal(payload.Weather)
	if err != nil {
		return domain.PushRecord{}, fmt.Errorf("marshal weather: %w", err)
	}
	historyJSON, err := json.Marshal(payload.History)
	if err != nil {
		return domain.PushRecord{}, fmt.Errorf("marshal history: %w", err)
	}
	topicsJSON, err := json.Marshal(payload.Topics)
	if err != nil {
		return domain.PushRecord{}, fmt.Errorf("marshal topics: %w", err)
	}

	return domain.PushRecord{
		PushDate:      payload.PushDate,
		PushTime:      payload.PushTime,
		WeatherInfo:   string(weatherJSON),
		AIAdvice:      payload.Advice,
		HistoryEvents: string(historyJSON),
		HotSearches:   string(topicsJSON),
		DailyImage:    payload.ImageURL,
		Status:        domain.StatusPending,
	}, nil
}

// deliver renders and pushes the payload, returning the terminal record
// status for this run.
func (p *Pipeline) deliver(ctx context.Context, payload domain.DigestPayload) domain.PushStatus {
	if p.renderer == nil || p.pusher == nil {
		p.warn("delivery skipped", "reason", "renderer or pusher not configured")
		return domain.StatusFailed
	}

	content, err := p.renderer.Render(payload)
	if err != nil {
		p.warn("render digest", "error", err)
		return domain.StatusFailed
	}

	outcome, err := p.pusher.Push(ctx, p.title, content)
	if outcome == domain.DeliverySent {
		p.info("digest delivered", "outcome", string(outcome))
		return domain.StatusSuccess
	}

	p.warn("digest not delivered", "outcome", string(outcome), "error", err)
	return domain.StatusFailed
}

// persist writes the audit row. A persistence failure is reported but never
// alters the delivery outcome or crashes the run; this is the last step.
func (p *Pipeline) persist(ctx context.Context, record domain.PushRecord) {
	if p.repository == nil {
		p.warn("persistence skipped", "reason", "repository not configured")
		return
	}

	if err := p.repository.Save(ctx, record); err != nil {
		if p.logger != nil {
			p.logger.Error("persist push record", "push_date", record.PushDate, "error", err)
		}
		return
	}

	p.info("push record persisted", "push_date", record.PushDate, "status", string(record.Status))
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
