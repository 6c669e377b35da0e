// Package ipgeo implements locality.Locator using an IP geolocation
// service that speaks the ip-api.com JSON format.
package ipgeo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nevindra/locality"
	"github.com/nevindra/locality/internal/httpjson"
)

// DefaultEndpoint looks up the caller's own public IP.
const DefaultEndpoint = "http://ip-api.com/json/?fields=status,message,country,city,lat,lon"

// Option configures a Locator.
type Option func(*Locator)

// WithEndpoint overrides the lookup URL.
func WithEndpoint(url string) Option {
	return func(l *Locator) { l.endpoint = url }
}

// WithHTTPClient sets the HTTP client. Overrides WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Locator) { l.client = c }
}

// WithTimeout sets the client timeout (default 10s).
func WithTimeout(d time.Duration) Option {
	return func(l *Locator) { l.timeout = d }
}

// WithLogger sets a structured logger.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Locator) { l.logger = lg }
}

// Locator resolves the caller's location from its public IP.
type Locator struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
	logger   *slog.Logger
}

var _ locality.Locator = (*Locator)(nil)

// New creates a Locator against DefaultEndpoint.
func New(opts ...Option) *Locator {
	l := &Locator{endpoint: DefaultEndpoint}
	for _, o := range opts {
		o(l)
	}
	if l.client == nil {
		l.client = httpjson.NewClient(l.timeout)
	}
	if l.logger == nil {
		l.logger = slog.New(discardHandler{})
	}
	return l
}

// response is the ip-api.com payload.
type response struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Country string   `json:"country"`
	City    string   `json:"city"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Locate implements locality.Locator. Any failure is a *locality.LocationError.
func (l *Locator) Locate(ctx context.Context) (locality.Location, error) {
	start := time.Now()
	var resp response
	if err := httpjson.Get(ctx, l.client, l.endpoint, &resp); err != nil {
		l.logger.Debug("ipgeo: request failed", "error", err, "duration", time.Since(start))
		return locality.Location{}, &locality.LocationError{Err: err}
	}
	if resp.Status != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "status " + resp.Status
		}
		return locality.Location{}, &locality.LocationError{Err: fmt.Errorf("provider: %s", msg)}
	}
	if resp.Lat == nil || resp.Lon == nil {
		return locality.Location{}, &locality.LocationError{Err: errors.New("provider: missing coordinates")}
	}

	loc := locality.Location{
		City:        resp.City,
		Country:     resp.Country,
		Coordinates: &locality.Coordinates{Latitude: *resp.Lat, Longitude: *resp.Lon},
	}
	l.logger.Debug("ipgeo: located", "city", loc.City, "country", loc.Country, "duration", time.Since(start))
	return loc, nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
