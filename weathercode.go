package locality

// UnknownWeatherCondition is the description used for unmapped codes.
const UnknownWeatherCondition = "Unknown weather condition"

// WeatherCodeMap maps WMO weather interpretation codes, as reported by
// Open-Meteo, to short descriptions. Codes not listed are unknown.
var WeatherCodeMap = map[int]string{
	0:  "Clear",
	1:  "Mostly Clear",
	2:  "Partly Cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Freezing Fog",
	51: "Light Drizzle",
	53: "Moderate Drizzle",
	55: "Dense Drizzle",
	56: "Light Freezing Drizzle",
	57: "Dense Freezing Drizzle",
	61: "Light Rain",
	63: "Moderate Rain",
	65: "Heavy Rain",
	66: "Light Freezing Rain",
	67: "Heavy Freezing Rain",
	71: "Light Snow",
	73: "Moderate Snow",
	75: "Heavy Snow",
	77: "Snow Grains",
	80: "Light Rain Showers",
	81: "Moderate Rain Showers",
	82: "Violent Rain Showers",
	85: "Slight Snow Showers",
	86: "Heavy Snow Showers",
	95: "Thunderstorm: Slight or Moderate",
	96: "Thunderstorm With Light Hail",
	99: "Thunderstorm With Heavy Hail",
}

// DescribeWeatherCode returns the description for code.
func DescribeWeatherCode(code int) string {
	if d, ok := WeatherCodeMap[code]; ok {
		return d
	}
	return UnknownWeatherCondition
}
