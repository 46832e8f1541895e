package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Source identifies one upstream provider feeding the daily digest.
type Source string

const (
	SourceWeather  Source = "weather"
	SourceHistory  Source = "history"
	SourceTrending Source = "hot_searches"
	SourceImage    Source = "image"
	SourceAdvice   Source = "ai"
)

// Sources lists every provider in the order they are fetched.
var Sources = []Source{SourceWeather, SourceHistory, SourceTrending, SourceImage, SourceAdvice}

// State records whether a source produced real data or fell back.
type State string

const (
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

// ServiceStatus maps every source to the outcome of its fetch for one run.
type ServiceStatus map[Source]State

// NewServiceStatus pre-fills every source as failed, so a skipped writer
// still leaves exactly one entry per name.
func NewServiceStatus() ServiceStatus {
	status := make(ServiceStatus, len(Sources))
	for _, src := range Sources {
		status[src] = StateFailed
	}
	return status
}

// MarkSuccess records that a source yielded real data.
func (s ServiceStatus) MarkSuccess(src Source) { s[src] = StateSuccess }

// MarkFailed records that a source fell back to its default.
func (s ServiceStatus) MarkFailed(src Source) { s[src] = StateFailed }

// Succeeded reports whether the source produced real data.
func (s ServiceStatus) Succeeded(src Source) bool { return s[src] == StateSuccess }

// Counts returns how many sources succeeded and how many fell back.
func (s ServiceStatus) Counts() (succeeded, failed int) {
	for _, state := range s {
		if state == StateSuccess {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// Clone returns an independent copy so a frozen snapshot can be handed out.
func (s ServiceStatus) Clone() ServiceStatus {
	out := make(ServiceStatus, len(s))
	for src, state := range s {
		out[src] = state
	}
	return out
}

// SourceResult carries a source value that is always present: either the
// parsed upstream data or the source's deterministic default.
type SourceResult[T any] struct {
	Value    T
	Degraded bool
}

// Ok wraps real upstream data.
func Ok[T any](value T) SourceResult[T] {
	return SourceResult[T]{Value: value}
}

// Fallback wraps a default value substituted after a source failure.
func Fallback[T any](value T) SourceResult[T] {
	return SourceResult[T]{Value: value, Degraded: true}
}

// UnknownField is the sentinel for weather fields the endpoint omitted.
const UnknownField = "unknown"

// WeatherRecord holds one day's conditions; JSON tags match the upstream
// response field names.
type WeatherRecord struct {
	City      string `json:"city"`
	Date      string `json:"date"`
	Weekday   string `json:"day"`
	Condition string `json:"weather"`
	Temp      string `json:"temp"`
	FeelsLike string `json:"feelsLike"`
	HighTemp  string `json:"highTemp"`
	LowTemp   string `json:"lowTemp"`
	Humidity  string `json:"rh"`
	Wind      string `json:"wind"`
}

// FillUnknown replaces absent fields with the sentinel so downstream
// composition never sees an empty string.
func (w *WeatherRecord) FillUnknown() {
	for _, field := range []*string{
		&w.City, &w.Date, &w.Weekday, &w.Condition, &w.Temp,
		&w.FeelsLike, &w.HighTemp, &w.LowTemp, &w.Humidity, &w.Wind,
	} {
		if strings.TrimSpace(*field) == "" {
			*field = UnknownField
		}
	}
}

// DefaultWeather is the record substituted when the weather source fails.
func DefaultWeather() WeatherRecord {
	return WeatherRecord{
		City:      UnknownField,
		Date:      UnknownField,
		Weekday:   UnknownField,
		Condition: "data unavailable",
		Temp:      UnknownField,
		FeelsLike: UnknownField,
		HighTemp:  UnknownField,
		LowTemp:   UnknownField,
		Humidity:  UnknownField,
		Wind:      UnknownField,
	}
}

// DefaultHistory is the single-entry list substituted when the history
// source fails.
func DefaultHistory() []string {
	return []string{"history data unavailable"}
}

// DefaultTopics is the placeholder list substituted when the trending
// source fails.
func DefaultTopics() []TopicEntry {
	return []TopicEntry{{Title: "hot search data unavailable"}}
}

// DefaultAdvice is the fixed string used when advice generation fails or is
// skipped because the weather itself is unknown.
const DefaultAdvice = "No weather advice today, sorry. Please glance at the sky before heading out."

// TopicEntry is one trending item. The upstream list mixes structured
// {title, hot} objects with bare title strings, and the metric may arrive
// as a number, so decoding is done by hand.
type TopicEntry struct {
	Title  string `json:"title"`
	Metric string `json:"hot,omitempty"`
}

func (t *TopicEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var title string
		if err := json.Unmarshal(trimmed, &title); err != nil {
			return err
		}
		t.Title = title
		t.Metric = ""
		return nil
	}

	var obj struct {
		Title string          `json:"title"`
		Hot   json.RawMessage `json:"hot"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	t.Title = obj.Title
	t.Metric = strings.Trim(string(bytes.TrimSpace(obj.Hot)), `"`)
	if t.Metric == "null" {
		t.Metric = ""
	}
	return nil
}

// DigestPayload is the composed result of one run: rendering-ready data for
// every section plus the per-source status snapshot.
type DigestPayload struct {
	PushDate string
	PushTime string
	Weather  WeatherRecord
	Advice   string
	History  []string
	Topics   []TopicEntry
	ImageURL string
	Status   ServiceStatus
}

// PushStatus tracks the delivery lifecycle of a persisted record.
type PushStatus string

const (
	StatusPending PushStatus = "pending"
	StatusSuccess PushStatus = "success"
	StatusFailed  PushStatus = "failed"
)

// PushRecord is the audit row persisted once per calendar day. Nested
// fields are stored as JSON text; DailyImage is empty when no image was
// available.
type PushRecord struct {
	PushDate      string
	PushTime      string
	WeatherInfo   string
	AIAdvice      string
	HistoryEvents string
	HotSearches   string
	DailyImage    string
	Status        PushStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DeliveryOutcome classifies one push attempt.
type DeliveryOutcome string

const (
	DeliverySent        DeliveryOutcome = "sent"
	DeliveryRejected    DeliveryOutcome = "rejected"
	DeliveryUnreachable DeliveryOutcome = "unreachable"
)
