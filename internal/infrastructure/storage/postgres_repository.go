package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

const createTableQuery = `
CREATE TABLE IF NOT EXISTS daily_pushes (
    id             SERIAL PRIMARY KEY,
    push_date      DATE NOT NULL UNIQUE,
    push_time      TIME NOT NULL,
    weather_info   JSONB NOT NULL,
    ai_advice      TEXT,
    history_events JSONB NOT NULL,
    hot_searches   JSONB NOT NULL,
    daily_image    VARCHAR(255),
    status         VARCHAR(10) NOT NULL CHECK (status IN ('pending', 'success', 'failed')),
    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresRepository persists daily push records into Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ ports.PushRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the daily_pushes table when it does not exist yet.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}

	if _, err := r.db.ExecContext(ctx, createTableQuery); err != nil {
		return &domain.PersistenceError{Err: fmt.Errorf("create table: %w", err)}
	}

	return nil
}

// Save upserts the day's record keyed on push_date: insert when absent,
// otherwise overwrite every field and bump updated_at.
func (r *PostgresRepository) Save(ctx context.Context, record domain.PushRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := buildUpsert(record)
	if err != nil {
		return &domain.PersistenceError{Err: fmt.Errorf("build upsert: %w", err)}
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return &domain.PersistenceError{Err: fmt.Errorf("upsert push record: %w", err)}
	}

	return nil
}

func buildUpsert(record domain.PushRecord) (string, []any, error) {
	return sq.Insert("daily_pushes").
		Columns("push_date", "push_time", "weather_info", "ai_advice",
			"history_events", "hot_searches", "daily_image", "status").
		Values(record.PushDate, record.PushTime, record.WeatherInfo, record.AIAdvice,
			record.HistoryEvents, record.HotSearches, nullableImage(record.DailyImage), string(record.Status)).
		Suffix(`ON CONFLICT (push_date) DO UPDATE SET
            push_time = EXCLUDED.push_time,
            weather_info = EXCLUDED.weather_info,
            ai_advice = EXCLUDED.ai_advice,
            history_events = EXCLUDED.history_events,
            hot_searches = EXCLUDED.hot_searches,
            daily_image = EXCLUDED.daily_image,
            status = EXCLUDED.status,
            updated_at = NOW()`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// FindByDate reads back the stored row for one calendar date.
func (r *PostgresRepository) FindByDate(ctx context.Context, pushDate string) (domain.PushRecord, error) {
	var record domain.PushRecord
	if r.db == nil {
		return record, &domain.PersistenceError{Err: sql.ErrConnDone}
	}

	query, args, err := sq.Select("push_date", "push_time", "weather_info", "ai_advice",
		"history_events", "hot_searches", "daily_image", "status", "created_at", "updated_at").
		From("daily_pushes").
		Where(sq.Eq{"push_date": pushDate}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return record, &domain.PersistenceError{Err: fmt.Errorf("build select: %w", err)}
	}

	var image sql.NullString
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&record.PushDate, &record.PushTime, &record.WeatherInfo, &record.AIAdvice,
		&record.HistoryEvents, &record.HotSearches, &image, &record.Status,
		&record.CreatedAt, &record.UpdatedAt); err != nil {
		return domain.PushRecord{}, &domain.PersistenceError{Err: fmt.Errorf("scan push record: %w", err)}
	}

	if image.Valid {
		record.DailyImage = image.String
	}

	return record, nil
}

func nullableImage(imageURL string) sql.NullString {
	return sql.NullString{String: imageURL, Valid: imageURL != ""}
}
