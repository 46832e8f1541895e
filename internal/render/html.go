package render

import (
	"fmt"
	"html/template"
	"strings"

	"DailyPush/internal/domain"
	"DailyPush/internal/ports"
)

// HTMLRenderer builds the mail body from a composed digest payload. Sections
// backed by a failed source carry a visible fallback notice.
type HTMLRenderer struct {
	title string
	tmpl  *template.Template
}

var _ ports.Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer parses the digest template once.
func NewHTMLRenderer(title string) *HTMLRenderer {
	return &HTMLRenderer{
		title: title,
		tmpl:  template.Must(template.New("digest").Parse(digestTemplate)),
	}
}

type rankedTopic struct {
	Rank   int
	Title  string
	Metric string
}

type digestView struct {
	Title            string
	PushDate         string
	PushTime         string
	Weather          domain.WeatherRecord
	Advice           string
	History          []string
	Topics           []rankedTopic
	ImageURL         string
	WeatherDegraded  bool
	AdviceDegraded   bool
	HistoryDegraded  bool
	TrendingDegraded bool
}

// Render executes the template against the payload.
func (r *HTMLRenderer) Render(payload domain.DigestPayload) (string, error) {
	view := digestView{
		Title:            r.title,
		PushDate:         payload.PushDate,
		PushTime:         payload.PushTime,
		Weather:          payload.Weather,
		Advice:           payload.Advice,
		History:          payload.History,
		ImageURL:         payload.ImageURL,
		WeatherDegraded:  !payload.Status.Succeeded(domain.SourceWeather),
		AdviceDegraded:   !payload.Status.Succeeded(domain.SourceAdvice),
		HistoryDegraded:  !payload.Status.Succeeded(domain.SourceHistory),
		TrendingDegraded: !payload.Status.Succeeded(domain.SourceTrending),
	}

	for i, topic := range payload.Topics {
		view.Topics = append(view.Topics, rankedTopic{
			Rank:   i + 1,
			Title:  topic.Title,
			Metric: topic.Metric,
		})
	}

	var out strings.Builder
	if err := r.tmpl.Execute(&out, view); err != nil {
		return "", fmt.Errorf("execute digest template: %w", err)
	}

	return out.String(), nil
}

const digestTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
        .container { background-color: #fff; border-radius: 10px; padding: 30px; box-shadow: 0 2px 10px rgba(0, 0, 0, 0.1); }
        h1 { color: #4a6fa5; text-align: center; border-bottom: 2px solid #4a6fa5; padding-bottom: 10px; }
        h2 { color: #6b8e23; margin-top: 30px; padding-left: 10px; border-left: 4px solid #6b8e23; }
        .weather-section { background-color: #e3f2fd; padding: 20px; border-radius: 8px; }
        .history-section { background-color: #f0f8ff; padding: 20px; border-radius: 8px; }
        .hot-section { background-color: #fff8e1; padding: 20px; border-radius: 8px; }
        .hot-item { padding: 8px 0; border-bottom: 1px solid #f5deb3; }
        .hot-item:last-child { border-bottom: none; }
        .hot-rank { font-weight: bold; color: #d32f2f; margin-right: 10px; }
        .hot-metric { color: #757575; font-size: 0.9em; margin-left: 10px; }
        .fallback-notice { color: #b71c1c; font-style: italic; }
        .timestamp { color: #757575; text-align: center; font-size: 0.9em; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p class="timestamp">{{.PushDate}} {{.PushTime}}</p>

        <div class="weather-section">
            <h2>Today's Weather</h2>
            {{- if .WeatherDegraded}}
            <p class="fallback-notice">Weather data could not be fetched; showing placeholders.</p>
            {{- end}}
            <p><strong>City:</strong> {{.Weather.City}}</p>
            <p><strong>Date:</strong> {{.Weather.Date}} ({{.Weather.Weekday}})</p>
            <p><strong>Condition:</strong> {{.Weather.Condition}}</p>
            <p><strong>Temperature:</strong> {{.Weather.Temp}}</p>
            <p><strong>Feels like:</strong> {{.Weather.FeelsLike}}</p>
            <p><strong>High:</strong> {{.Weather.HighTemp}}</p>
            <p><strong>Low:</strong> {{.Weather.LowTemp}}</p>
            <p><strong>Humidity:</strong> {{.Weather.Humidity}}</p>
            <p><strong>Wind:</strong> {{.Weather.Wind}}</p>
            <p><strong>Advice:</strong> {{.Advice}}{{if .AdviceDegraded}} <span class="fallback-notice">(automatic fallback)</span>{{end}}</p>
        </div>

        <div class="history-section">
            <h2>On This Day</h2>
            {{- if .HistoryDegraded}}
            <p class="fallback-notice">History data could not be fetched.</p>
            {{- end}}
            <ul>
            {{- range .History}}
                <li>{{.}}</li>
            {{- end}}
            </ul>
        </div>

        <div class="hot-section">
            <h2>Trending Now</h2>
            {{- if .TrendingDegraded}}
            <p class="fallback-notice">Hot-search data could not be fetched.</p>
            {{- end}}
            {{- range .Topics}}
            <div class="hot-item">
                <span class="hot-rank">{{.Rank}}.</span>
                <span class="hot-title">{{.Title}}</span>
                {{- if .Metric}}
                <span class="hot-metric">{{.Metric}}</span>
                {{- end}}
            </div>
            {{- end}}
        </div>

        {{- if .ImageURL}}
        <div class="image-section">
            <h2>Picture of the Day</h2>
            <p style="text-align: center;"><img src="{{.ImageURL}}" alt="daily picture" style="max-width: 100%; border-radius: 8px;"></p>
        </div>
        {{- end}}
    </div>
</body>
</html>`
