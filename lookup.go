package locality

import (
	"context"
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholders written into annotations when a lookup fails.
const (
	LocationUnavailable = "Location unavailable"
	UnknownCountry      = "Unknown"
	WeatherUnavailable  = "Weather unavailable"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is the result of a geolocation lookup. Coordinates is nil when
// the provider could not place the caller.
type Location struct {
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// PlaceholderLocation is the location reported when a lookup fails.
func PlaceholderLocation() Location {
	return Location{City: LocationUnavailable, Country: UnknownCountry}
}

// Conditions is the current weather at a point.
type Conditions struct {
	Code         int     `json:"weathercode"`
	TemperatureC float64 `json:"temperature"`
}

// Description maps the weather code through WeatherCodeMap.
func (c Conditions) Description() string { return DescribeWeatherCode(c.Code) }

// Locator finds the caller's location, typically from its public IP.
// Failures are returned as *LocationError.
type Locator interface {
	Locate(ctx context.Context) (Location, error)
}

// WeatherProvider reports current conditions at the given coordinates.
// Failures are returned as *WeatherError.
type WeatherProvider interface {
	Current(ctx context.Context, at Coordinates) (Conditions, error)
}

// StaticLocator always reports the same location. Use it to pin a location
// instead of looking it up per turn.
type StaticLocator struct {
	Location Location
}

// Locate implements Locator.
func (s StaticLocator) Locate(context.Context) (Location, error) {
	if s.Location.Coordinates == nil && s.Location.City == "" {
		return Location{}, &LocationError{Err: errors.New("static location not set")}
	}
	return s.Location, nil
}

// FormatTemperature renders a Celsius reading in unit with one decimal
// place, using the number conventions of tag.
func FormatTemperature(celsius float64, unit TempUnit, tag language.Tag) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%.1f", unit.Convert(celsius)) + unit.Symbol()
}

// FormatConditions renders "<condition>, <temperature><unit>".
func FormatConditions(c Conditions, unit TempUnit, tag language.Tag) string {
	return c.Description() + ", " + FormatTemperature(c.TemperatureC, unit, tag)
}

// WeatherText looks up the weather at coords and formats it. A nil coords
// returns WeatherUnavailable without calling the provider, as does any
// lookup failure.
func WeatherText(ctx context.Context, p WeatherProvider, coords *Coordinates, unit TempUnit, tag language.Tag) string {
	c, err := lookupWeather(ctx, p, coords)
	if err != nil {
		return WeatherUnavailable
	}
	return FormatConditions(c, unit, tag)
}

func lookupWeather(ctx context.Context, p WeatherProvider, coords *Coordinates) (Conditions, error) {
	if coords == nil {
		return Conditions{}, &WeatherError{Err: ErrNoCoordinates}
	}
	if p == nil {
		return Conditions{}, &WeatherError{Err: errors.New("no weather provider")}
	}
	return p.Current(ctx, *coords)
}
