package locality

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/text/language"
)

func TestFormatTemperature(t *testing.T) {
	tests := []struct {
		celsius float64
		unit    TempUnit
		tag     language.Tag
		want    string
	}{
		{0, Fahrenheit, language.AmericanEnglish, "32.0°F"},
		{100, Fahrenheit, language.AmericanEnglish, "212.0°F"},
		{21.34, Celsius, language.AmericanEnglish, "21.3°C"},
		{-4, Celsius, language.AmericanEnglish, "-4.0°C"},
		{12.5, Celsius, language.German, "12,5°C"},
	}
	for _, tt := range tests {
		if got := FormatTemperature(tt.celsius, tt.unit, tt.tag); got != tt.want {
			t.Errorf("FormatTemperature(%v, %s, %s) = %q, want %q", tt.celsius, tt.unit, tt.tag, got, tt.want)
		}
	}
}

func TestWeatherTextNilCoordinates(t *testing.T) {
	w := &fakeWeather{cond: Conditions{Code: 0, TemperatureC: 20}}
	got := WeatherText(context.Background(), w, nil, Celsius, language.AmericanEnglish)
	if got != WeatherUnavailable {
		t.Errorf("got %q, want %q", got, WeatherUnavailable)
	}
	if w.calls != 0 {
		t.Errorf("provider called %d times without coordinates", w.calls)
	}
}

func TestWeatherTextFormatsConditions(t *testing.T) {
	w := &fakeWeather{cond: Conditions{Code: 61, TemperatureC: 8.04}}
	got := WeatherText(context.Background(), w, &Coordinates{Latitude: 1, Longitude: 2}, Celsius, language.AmericanEnglish)
	if want := "Light Rain, 8.0°C"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWeatherTextProviderFailure(t *testing.T) {
	w := &fakeWeather{err: &WeatherError{Err: errBoom}}
	got := WeatherText(context.Background(), w, &Coordinates{}, Celsius, language.AmericanEnglish)
	if got != WeatherUnavailable {
		t.Errorf("got %q, want %q", got, WeatherUnavailable)
	}
}

func TestLookupWeatherNoCoordinatesError(t *testing.T) {
	_, err := lookupWeather(context.Background(), &fakeWeather{}, nil)
	if !errors.Is(err, ErrNoCoordinates) {
		t.Errorf("expected ErrNoCoordinates, got %v", err)
	}
}

func TestStaticLocator(t *testing.T) {
	loc, err := StaticLocator{Location: berlin()}.Locate(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if loc.City != "Berlin" || loc.Coordinates == nil {
		t.Errorf("unexpected location %+v", loc)
	}

	_, err = StaticLocator{}.Locate(context.Background())
	var le *LocationError
	if !errors.As(err, &le) {
		t.Errorf("empty static locator should fail with *LocationError, got %v", err)
	}
}

func TestPlaceholderLocation(t *testing.T) {
	p := PlaceholderLocation()
	if p.City != "Location unavailable" || p.Country != "Unknown" || p.Coordinates != nil {
		t.Errorf("unexpected placeholder %+v", p)
	}
}
