// Package openmeteo implements locality.WeatherProvider against the
// Open-Meteo forecast API. No API key is required.
package openmeteo

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nevindra/locality"
	"github.com/nevindra/locality/internal/httpjson"
)

// DefaultBaseURL is the public Open-Meteo API.
const DefaultBaseURL = "https://api.open-meteo.com"

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the HTTP client. Overrides WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the client timeout (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client fetches current weather from Open-Meteo.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

var _ locality.WeatherProvider = (*Client)(nil)

// New creates a Client against DefaultBaseURL.
func New(opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = httpjson.NewClient(c.timeout)
	}
	if c.logger == nil {
		c.logger = slog.New(discardHandler{})
	}
	return c
}

// forecast is the subset of the /v1/forecast payload we consume.
type forecast struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WeatherCode *int     `json:"weathercode"`
	} `json:"current_weather"`
}

// ForecastURL builds the current-weather request URL for at.
func (c *Client) ForecastURL(at locality.Coordinates) string {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(at.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(at.Longitude, 'f', -1, 64))
	q.Set("current_weather", "true")
	return c.baseURL + "/v1/forecast?" + q.Encode()
}

// Current implements locality.WeatherProvider. Any failure is a
// *locality.WeatherError.
func (c *Client) Current(ctx context.Context, at locality.Coordinates) (locality.Conditions, error) {
	start := time.Now()
	var f forecast
	if err := httpjson.Get(ctx, c.http, c.ForecastURL(at), &f); err != nil {
		c.logger.Debug("openmeteo: request failed", "error", err, "duration", time.Since(start))
		return locality.Conditions{}, &locality.WeatherError{Err: err}
	}
	if f.CurrentWeather == nil {
		return locality.Conditions{}, &locality.WeatherError{Err: errors.New("response missing current_weather")}
	}
	if f.CurrentWeather.Temperature == nil || f.CurrentWeather.WeatherCode == nil {
		return locality.Conditions{}, &locality.WeatherError{Err: errors.New("response missing temperature or weathercode")}
	}

	cond := locality.Conditions{
		Code:         *f.CurrentWeather.WeatherCode,
		TemperatureC: *f.CurrentWeather.Temperature,
	}
	c.logger.Debug("openmeteo: current weather", "code", cond.Code, "temperature", cond.TemperatureC, "duration", time.Since(start))
	return cond, nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
