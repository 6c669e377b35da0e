package locality

import "testing"

func TestDescribeWeatherCode(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear"},
		{45, "Fog"},
		{95, "Thunderstorm: Slight or Moderate"},
		{99, "Thunderstorm With Heavy Hail"},
		{4, "Unknown weather condition"},
		{999, "Unknown weather condition"},
		{-1, "Unknown weather condition"},
	}
	for _, tt := range tests {
		if got := DescribeWeatherCode(tt.code); got != tt.want {
			t.Errorf("DescribeWeatherCode(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestWeatherCodeMapRange(t *testing.T) {
	for code := range WeatherCodeMap {
		if code < 0 || code > 99 {
			t.Errorf("code %d outside 0-99", code)
		}
	}
}
