package locality

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Setting keys, as persisted.
const (
	KeyAddTime     = "add_time"
	KeyAddDate     = "add_date"
	KeyAddTimezone = "add_timezone"
	KeyAddLocation = "add_location"
	KeyAddWeather  = "add_weather"
	KeyTimezone    = "timezone"
	KeyTempUnit    = "temp_unit"
	KeyLocale      = "locale"
)

// Keys lists every setting key in persisted order.
var Keys = []string{
	KeyAddTime, KeyAddDate, KeyAddTimezone, KeyAddLocation, KeyAddWeather,
	KeyTimezone, KeyTempUnit, KeyLocale,
}

// TempUnit selects how temperatures are rendered.
type TempUnit string

const (
	Celsius    TempUnit = "Celsius"
	Fahrenheit TempUnit = "Fahrenheit"
)

// Symbol returns the unit suffix used in annotations.
func (u TempUnit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Convert converts a Celsius reading into this unit.
func (u TempUnit) Convert(celsius float64) float64 {
	if u == Fahrenheit {
		return celsius*9/5 + 32
	}
	return celsius
}

// Valid reports whether u is one of the known units.
func (u TempUnit) Valid() bool { return u == Celsius || u == Fahrenheit }

// Settings holds the user toggles. Field order is the persisted key order.
type Settings struct {
	AddTime     bool     `json:"add_time"`
	AddDate     bool     `json:"add_date"`
	AddTimezone bool     `json:"add_timezone"`
	AddLocation bool     `json:"add_location"`
	AddWeather  bool     `json:"add_weather"`
	Timezone    string   `json:"timezone"`
	TempUnit    TempUnit `json:"temp_unit"`
	Locale      string   `json:"locale"`
}

// DefaultSettings returns every toggle enabled, UTC, Celsius and en-US.
func DefaultSettings() Settings {
	return Settings{
		AddTime:     true,
		AddDate:     true,
		AddTimezone: true,
		AddLocation: true,
		AddWeather:  true,
		Timezone:    "UTC",
		TempUnit:    Celsius,
		Locale:      "en-US",
	}
}

// Validate checks the string-valued settings against their domains.
func (s Settings) Validate() error {
	if s.Timezone == "" {
		return fmt.Errorf("%s: empty", KeyTimezone)
	}
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("%s: %w", KeyTimezone, err)
	}
	if !s.TempUnit.Valid() {
		return fmt.Errorf("%s: unknown unit %q", KeyTempUnit, s.TempUnit)
	}
	if _, err := language.Parse(s.Locale); err != nil {
		return fmt.Errorf("%s: %w", KeyLocale, err)
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (s Settings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil || s.Timezone == "" {
		return time.UTC
	}
	return loc
}

// Language resolves the configured locale, falling back to American English.
func (s Settings) Language() language.Tag {
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// Get returns the value stored under key.
func (s Settings) Get(key string) (any, bool) {
	switch key {
	case KeyAddTime:
		return s.AddTime, true
	case KeyAddDate:
		return s.AddDate, true
	case KeyAddTimezone:
		return s.AddTimezone, true
	case KeyAddLocation:
		return s.AddLocation, true
	case KeyAddWeather:
		return s.AddWeather, true
	case KeyTimezone:
		return s.Timezone, true
	case KeyTempUnit:
		return string(s.TempUnit), true
	case KeyLocale:
		return s.Locale, true
	}
	return nil, false
}

// With returns a copy of s with key set to value. Booleans accept bool
// values or the strings true/false/on/off/1/0 (HTML form encodings).
// The result is validated.
func (s Settings) With(key string, value any) (Settings, error) {
	switch key {
	case KeyAddTime, KeyAddDate, KeyAddTimezone, KeyAddLocation, KeyAddWeather:
		b, err := toBool(value)
		if err != nil {
			return s, fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case KeyAddTime:
			s.AddTime = b
		case KeyAddDate:
			s.AddDate = b
		case KeyAddTimezone:
			s.AddTimezone = b
		case KeyAddLocation:
			s.AddLocation = b
		case KeyAddWeather:
			s.AddWeather = b
		}
	case KeyTimezone, KeyTempUnit, KeyLocale:
		v, ok := value.(string)
		if !ok {
			return s, fmt.Errorf("%s: expected string, got %T", key, value)
		}
		switch key {
		case KeyTimezone:
			s.Timezone = v
		case KeyTempUnit:
			s.TempUnit = TempUnit(v)
		case KeyLocale:
			s.Locale = v
		}
	default:
		return s, fmt.Errorf("unknown setting %q", key)
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "on", "yes":
			return true, nil
		case "off", "no", "":
			return false, nil
		}
		return strconv.ParseBool(b)
	}
	return false, fmt.Errorf("expected bool, got %T", v)
}

// SettingsStore persists Settings.
//
// Load returns defaults (and writes them) when nothing is stored yet; keys
// missing from storage keep their default values. Implementations report
// failures as *ConfigError.
type SettingsStore interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
