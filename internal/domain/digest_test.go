package domain

import (
	"encoding/json"
	"testing"
)

func TestTopicEntryUnmarshalObject(t *testing.T) {
	t.Parallel()

	var entry TopicEntry
	if err := json.Unmarshal([]byte(`{"title":"big news","hot":"1234567"}`), &entry); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}
	if entry.Title != "big news" {
		t.Fatalf("unexpected title: %s", entry.Title)
	}
	if entry.Metric != "1234567" {
		t.Fatalf("unexpected metric: %s", entry.Metric)
	}
}

func TestTopicEntryUnmarshalNumericMetric(t *testing.T) {
	t.Parallel()

	var entry TopicEntry
	if err := json.Unmarshal([]byte(`{"title":"big news","hot":4521000}`), &entry); err != nil {
		t.Fatalf("unmarshal numeric metric: %v", err)
	}
	if entry.Metric != "4521000" {
		t.Fatalf("unexpected metric: %s", entry.Metric)
	}
}

func TestTopicEntryUnmarshalBareString(t *testing.T) {
	t.Parallel()

	var entry TopicEntry
	if err := json.Unmarshal([]byte(`"just a title"`), &entry); err != nil {
		t.Fatalf("unmarshal bare string: %v", err)
	}
	if entry.Title != "just a title" {
		t.Fatalf("unexpected title: %s", entry.Title)
	}
	if entry.Metric != "" {
		t.Fatalf("expected empty metric, got %s", entry.Metric)
	}
}

func TestTopicEntryUnmarshalMixedList(t *testing.T) {
	t.Parallel()

	var entries []TopicEntry
	raw := `[{"title":"first","hot":"99w"},"second",{"title":"third"}]`
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		t.Fatalf("unmarshal mixed list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].Title != "second" {
		t.Fatalf("unexpected second title: %s", entries[1].Title)
	}
	if entries[2].Metric != "" {
		t.Fatalf("expected empty metric for third entry, got %s", entries[2].Metric)
	}
}

func TestNewServiceStatusCoversEverySource(t *testing.T) {
	t.Parallel()

	status := NewServiceStatus()
	if len(status) != len(Sources) {
		t.Fatalf("expected %d entries, got %d", len(Sources), len(status))
	}
	for _, src := range Sources {
		if status[src] != StateFailed {
			t.Fatalf("source %s should start failed, got %s", src, status[src])
		}
	}

	status.MarkSuccess(SourceWeather)
	status.MarkSuccess(SourceImage)

	succeeded, failed := status.Counts()
	if succeeded != 2 || failed != 3 {
		t.Fatalf("unexpected counts: %d succeeded, %d failed", succeeded, failed)
	}
}

func TestServiceStatusClone(t *testing.T) {
	t.Parallel()

	status := NewServiceStatus()
	status.MarkSuccess(SourceHistory)

	snapshot := status.Clone()
	status.MarkFailed(SourceHistory)

	if !snapshot.Succeeded(SourceHistory) {
		t.Fatal("clone should not observe later mutations")
	}
}

func TestWeatherRecordFillUnknown(t *testing.T) {
	t.Parallel()

	record := WeatherRecord{City: "Hangzhou", Condition: "sunny"}
	record.FillUnknown()

	if record.City != "Hangzhou" {
		t.Fatalf("populated field was overwritten: %s", record.City)
	}
	if record.Temp != UnknownField || record.Wind != UnknownField {
		t.Fatalf("absent fields not filled: temp=%s wind=%s", record.Temp, record.Wind)
	}
}

func TestDefaultWeather(t *testing.T) {
	t.Parallel()

	record := DefaultWeather()
	if record.Condition != "data unavailable" {
		t.Fatalf("unexpected default condition: %s", record.Condition)
	}
	if record.City != UnknownField {
		t.Fatalf("unexpected default city: %s", record.City)
	}
}
