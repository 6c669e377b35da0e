package locality

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Fragment labels and formatting.
const (
	fragmentSeparator = " | "
	timeLayout        = "03:04 PM"
	dateLayout        = "January 02, 2006"
)

// DefaultLookupTimeout bounds each outbound lookup.
const DefaultLookupTimeout = 5 * time.Second

// LocateFunc performs one location lookup.
type LocateFunc func() (Location, error)

// WeatherFunc performs one weather lookup at the given coordinates.
type WeatherFunc func(Coordinates) (Conditions, error)

// Fragments builds the labeled annotation fragments for s at instant now,
// in this order: time, date, timezone, location, weather. Location and
// weather are looked up only when enabled. Weather is included only when
// location is enabled and its lookup succeeded with coordinates.
func Fragments(s Settings, now time.Time, locate LocateFunc, weather WeatherFunc) []string {
	var out []string
	local := now.In(s.Location())

	if s.AddTime {
		out = append(out, "Current time: "+local.Format(timeLayout))
	}
	if s.AddDate {
		out = append(out, "Current date: "+local.Format(dateLayout))
	}
	if s.AddTimezone {
		out = append(out, "Timezone: "+s.Timezone)
	}
	if !s.AddLocation {
		return out
	}

	loc, err := callLocate(locate)
	if err != nil {
		loc = PlaceholderLocation()
	}
	out = append(out, "Location: "+loc.City+", "+loc.Country)

	if s.AddWeather && err == nil && loc.Coordinates != nil {
		text := WeatherUnavailable
		if weather != nil {
			if c, werr := weather(*loc.Coordinates); werr == nil {
				text = FormatConditions(c, s.TempUnit, s.Language())
			}
		}
		out = append(out, "Weather: "+text)
	}
	return out
}

func callLocate(locate LocateFunc) (Location, error) {
	if locate == nil {
		return Location{}, &LocationError{Err: errors.New("no locator")}
	}
	return locate()
}

// AppendAnnotation appends fragments to text as "\n[a | b | c]". With no
// fragments text is returned unchanged.
func AppendAnnotation(text string, fragments []string) string {
	if len(fragments) == 0 {
		return text
	}
	return text + "\n[" + strings.Join(fragments, fragmentSeparator) + "]"
}

// Annotate returns text with the annotation for s at now appended.
func Annotate(text string, s Settings, now time.Time, locate LocateFunc, weather WeatherFunc) string {
	return AppendAnnotation(text, Fragments(s, now, locate, weather))
}

// AnnotatorOption configures an Annotator.
type AnnotatorOption func(*Annotator)

// WithLocator sets the location source.
func WithLocator(l Locator) AnnotatorOption {
	return func(a *Annotator) { a.locator = l }
}

// WithWeather sets the weather source.
func WithWeather(w WeatherProvider) AnnotatorOption {
	return func(a *Annotator) { a.weather = w }
}

// WithLookupTimeout bounds each lookup (default: DefaultLookupTimeout).
// Zero or negative disables the bound.
func WithLookupTimeout(d time.Duration) AnnotatorOption {
	return func(a *Annotator) { a.timeout = d }
}

// WithClock replaces time.Now. Intended for tests.
func WithClock(now func() time.Time) AnnotatorOption {
	return func(a *Annotator) { a.now = now }
}

// WithLogger sets a structured logger. Lookup failures are logged at WARN.
func WithLogger(l *slog.Logger) AnnotatorOption {
	return func(a *Annotator) { a.logger = l }
}

// Annotator binds the pure annotation builder to live lookups.
// Safe for concurrent use.
type Annotator struct {
	locator Locator
	weather WeatherProvider
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewAnnotator creates an Annotator. Without a locator, location fragments
// always show the placeholder.
func NewAnnotator(opts ...AnnotatorOption) *Annotator {
	a := &Annotator{
		timeout: DefaultLookupTimeout,
		now:     time.Now,
		logger:  nopLogger,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Fragments builds the fragments for s using the annotator's clock and
// sources. Each lookup runs once under its own timeout.
func (a *Annotator) Fragments(ctx context.Context, s Settings) []string {
	locate := func() (Location, error) {
		if a.locator == nil {
			return Location{}, &LocationError{Err: errors.New("no locator")}
		}
		lctx, cancel := a.withTimeout(ctx)
		defer cancel()
		loc, err := a.locator.Locate(lctx)
		if err != nil {
			a.logger.Warn("location lookup failed", "error", err)
		}
		return loc, err
	}
	weather := func(at Coordinates) (Conditions, error) {
		wctx, cancel := a.withTimeout(ctx)
		defer cancel()
		c, err := lookupWeather(wctx, a.weather, &at)
		if err != nil {
			a.logger.Warn("weather lookup failed", "error", err)
		}
		return c, err
	}
	return Fragments(s, a.now(), locate, weather)
}

// Modify is the per-turn hook: it returns text with the annotation
// appended and visible unchanged.
func (a *Annotator) Modify(ctx context.Context, s Settings, text, visible string) (string, string) {
	fragments := a.Fragments(ctx, s)
	a.logger.Debug("annotation built", "fragments", len(fragments))
	return AppendAnnotation(text, fragments), visible
}

func (a *Annotator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
