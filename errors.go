package locality

import (
	"errors"
	"fmt"
)

// ErrNoCoordinates is returned by weather lookups that were given no
// coordinates. No request is made in that case.
var ErrNoCoordinates = errors.New("no coordinates")

// ErrInvalidSetting marks a change rejected by validation, as opposed to
// a storage failure.
var ErrInvalidSetting = errors.New("invalid setting")

// ErrHTTP is a non-2xx response from an upstream service.
type ErrHTTP struct {
	Status int
	Body   string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// ConfigError reports a settings storage failure: unreadable or malformed
// content, invalid values, or a failed write.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return "settings: " + e.Err.Error()
	}
	return fmt.Sprintf("settings %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LocationError reports a failed geolocation lookup.
type LocationError struct {
	Err error
}

func (e *LocationError) Error() string { return "location lookup: " + e.Err.Error() }

func (e *LocationError) Unwrap() error { return e.Err }

// WeatherError reports a failed weather lookup.
type WeatherError struct {
	Err error
}

func (e *WeatherError) Error() string { return "weather lookup: " + e.Err.Error() }

func (e *WeatherError) Unwrap() error { return e.Err }
