package app

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"DailyPush/internal/config"
	"DailyPush/internal/infrastructure/llm"
	"DailyPush/internal/infrastructure/push"
	"DailyPush/internal/infrastructure/sources"
	"DailyPush/internal/infrastructure/storage"
	"DailyPush/internal/logging"
	"DailyPush/internal/ports"
	"DailyPush/internal/render"
	"DailyPush/internal/usecase"
)

// Application wires configuration to the pipeline and owns the database
// handle for the lifetime of one run.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	repo     *storage.PostgresRepository
	db       *sql.DB
	logger   *slog.Logger
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	weather := sources.NewWeatherClient(cfg.Sources.WeatherEndpoint(), nil,
		baseLogger.With("component", "source.weather"))
	history := sources.NewHistoryClient(cfg.Sources.HistoryURL, nil,
		baseLogger.With("component", "source.history"))
	trending := sources.NewTrendingClient(cfg.Sources.TrendingURL, nil,
		baseLogger.With("component", "source.trending"))
	image := sources.NewImageClient(cfg.Sources.ImageURL, nil,
		baseLogger.With("component", "source.image"))

	var advisor ports.AdviceGenerator
	if cfg.AI.APIKey != "" {
		advisor = llm.NewAdvisor(cfg.AI)
	}

	var (
		db   *sql.DB
		repo *storage.PostgresRepository
	)
	if cfg.Database.DSN != "" {
		handle, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			baseLogger.Warn("open database", "error", err)
		} else {
			db = handle
			repo = storage.NewPostgresRepository(db)
		}
	} else {
		baseLogger.Warn("no database configured, push records will not be persisted")
	}

	var repository ports.PushRepository
	if repo != nil {
		repository = repo
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Weather:    weather,
		History:    history,
		Trending:   trending,
		Image:      image,
		Advisor:    advisor,
		Renderer:   render.NewHTMLRenderer(cfg.Digest.Title),
		Pusher:     push.NewClient(cfg.Push.Endpoint, cfg.Push.Token),
		Repository: repository,
		Clock: func() time.Time {
			return time.Now().In(cfg.Digest.Location())
		},
		Title:  cfg.Digest.Title,
		Logger: baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		pipeline: pipeline,
		repo:     repo,
		db:       db,
		logger:   baseLogger,
	}
}

// Run performs a single digest cycle and releases the database handle.
func (a *Application) Run(ctx context.Context) error {
	started := time.Now()
	a.logger.Info("daily push run starting", "time", started.Format(time.DateTime))

	if a.db != nil {
		defer a.db.Close()
		if err := a.repo.EnsureSchema(ctx); err != nil {
			a.logger.Error("ensure schema", "error", err)
		}
	}

	err := a.pipeline.Run(ctx)

	a.logger.Info("daily push run finished",
		"time", time.Now().Format(time.DateTime),
		"elapsed_seconds", time.Since(started).Seconds())

	return err
}
