package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"DailyPush/internal/domain"
)

func TestWeatherClientFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1,"data":{"city":"Hangzhou","date":"2026-08-31","day":"Monday",
			"weather":"cloudy","temp":"26","feelsLike":"28","highTemp":"30","lowTemp":"22","rh":"65%","wind":"NE 3"}}`))
	}))
	defer server.Close()

	client := NewWeatherClient(server.URL, server.Client(), nil)
	record, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if record.City != "Hangzhou" {
		t.Fatalf("unexpected city: %s", record.City)
	}
	if record.Condition != "cloudy" {
		t.Fatalf("unexpected condition: %s", record.Condition)
	}
}

func TestWeatherClientFillsAbsentFields(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":1,"data":{"city":"Hangzhou","weather":"sunny"}}`))
	}))
	defer server.Close()

	client := NewWeatherClient(server.URL, server.Client(), nil)
	record, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if record.Temp != domain.UnknownField {
		t.Fatalf("absent temp not filled: %s", record.Temp)
	}
	if record.Wind != domain.UnknownField {
		t.Fatalf("absent wind not filled: %s", record.Wind)
	}
}

func TestWeatherClientRejectsBadCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":0,"message":"district not found"}`))
	}))
	defer server.Close()

	client := NewWeatherClient(server.URL, server.Client(), nil)
	_, err := client.Fetch(context.Background())

	var rejection *domain.UpstreamRejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected UpstreamRejection, got %v", err)
	}
	if rejection.Message != "district not found" {
		t.Fatalf("unexpected message: %s", rejection.Message)
	}
}

func TestWeatherClientMalformedBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	client := NewWeatherClient(server.URL, server.Client(), nil)
	_, err := client.Fetch(context.Background())

	var shape *domain.ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestWeatherClientTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewWeatherClient(endpoint, nil, nil)
	_, err := client.Fetch(context.Background())

	var transport *domain.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestHistoryClientFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":["1969: moon landing","1989: web proposal"]}`))
	}))
	defer server.Close()

	client := NewHistoryClient(server.URL, server.Client(), nil)
	events, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
}

func TestHistoryClientMissingData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"msg":"rate limited"}`))
	}))
	defer server.Close()

	client := NewHistoryClient(server.URL, server.Client(), nil)
	_, err := client.Fetch(context.Background())

	var shape *domain.ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestTrendingClientTruncatesToTen(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"data":[`
		for i := 0; i < 15; i++ {
			if i > 0 {
				body += ","
			}
			body += fmt.Sprintf(`{"title":"topic %d","hot":%d}`, i, 1000-i)
		}
		body += `]}`
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := NewTrendingClient(server.URL, server.Client(), nil)
	topics, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(topics) != MaxTopics {
		t.Fatalf("expected %d topics, got %d", MaxTopics, len(topics))
	}
	if topics[0].Title != "topic 0" {
		t.Fatalf("unexpected first topic: %s", topics[0].Title)
	}
	if topics[0].Metric != "1000" {
		t.Fatalf("unexpected first metric: %s", topics[0].Metric)
	}
}

func TestTrendingClientMixedEntries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"title":"structured","hot":"12w"},"bare title"]}`))
	}))
	defer server.Close()

	client := NewTrendingClient(server.URL, server.Client(), nil)
	topics, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if topics[1].Title != "bare title" || topics[1].Metric != "" {
		t.Fatalf("unexpected bare entry: %+v", topics[1])
	}
}

func TestTrendingClientMissingData(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewTrendingClient(server.URL, server.Client(), nil)
	_, err := client.Fetch(context.Background())

	var shape *domain.ShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected ShapeError, got %v", err)
	}
}

func TestImageClientDirectImage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer server.Close()

	client := NewImageClient(server.URL, server.Client(), nil)
	imageURL, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if imageURL != server.URL {
		t.Fatalf("expected endpoint URL %s, got %s", server.URL, imageURL)
	}
}

func TestImageClientJSONBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.org/today.jpg"}`))
	}))
	defer server.Close()

	client := NewImageClient(server.URL, server.Client(), nil)
	imageURL, err := client.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if imageURL != "https://cdn.example.org/today.jpg" {
		t.Fatalf("unexpected image URL: %s", imageURL)
	}
}

func TestImageClientNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewImageClient(server.URL, server.Client(), nil)
	_, err := client.Fetch(context.Background())

	var rejection *domain.UpstreamRejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected UpstreamRejection, got %v", err)
	}
	if rejection.Code != http.StatusNotFound {
		t.Fatalf("unexpected code: %d", rejection.Code)
	}
}
