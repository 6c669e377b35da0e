package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Settings SettingsConfig `toml:"settings"`
	Lookup   LookupConfig   `toml:"lookup"`
	Location LocationConfig `toml:"location"`
	Observer ObserverConfig `toml:"observer"`
	Log      LogConfig      `toml:"log"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SettingsConfig selects where user settings are persisted.
// Backend is one of "json", "sqlite" or "postgres".
type SettingsConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
}

type LookupConfig struct {
	Timeout         Duration `toml:"timeout"`
	GeoEndpoint     string   `toml:"geo_endpoint"`
	WeatherEndpoint string   `toml:"weather_endpoint"`

	// Requests per minute per upstream; 0 disables the limit.
	GeoRPM     int `toml:"geo_rpm"`
	WeatherRPM int `toml:"weather_rpm"`
}

// LocationConfig pins a fixed location instead of the IP lookup when
// Latitude and Longitude are both set.
type LocationConfig struct {
	City      string   `toml:"city"`
	Country   string   `toml:"country"`
	Latitude  *float64 `toml:"latitude"`
	Longitude *float64 `toml:"longitude"`
}

// Static reports whether a fixed location is configured.
func (l LocationConfig) Static() bool {
	return l.Latitude != nil && l.Longitude != nil
}

type ObserverConfig struct {
	Enabled bool `toml:"enabled"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration that decodes from TOML strings like "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":7861"},
		Settings: SettingsConfig{Backend: "json", Path: "settings.json"},
		Lookup: LookupConfig{
			Timeout:         Duration{5 * time.Second},
			GeoEndpoint:     "http://ip-api.com/json/?fields=status,message,country,city,lat,lon",
			WeatherEndpoint: "https://api.open-meteo.com",
			GeoRPM:          45,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads config: defaults -> TOML file -> .env -> env vars (env wins).
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "locality.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	// Env overrides
	if v := os.Getenv("LOCALITY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOCALITY_SETTINGS_BACKEND"); v != "" {
		cfg.Settings.Backend = v
	}
	if v := os.Getenv("LOCALITY_SETTINGS_PATH"); v != "" {
		cfg.Settings.Path = v
	}
	if v := os.Getenv("LOCALITY_SETTINGS_DSN"); v != "" {
		cfg.Settings.DSN = v
	}
	if v := os.Getenv("LOCALITY_LOOKUP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Lookup.Timeout = Duration{d}
		}
	}
	if v := os.Getenv("LOCALITY_GEO_ENDPOINT"); v != "" {
		cfg.Lookup.GeoEndpoint = v
	}
	if v := os.Getenv("LOCALITY_WEATHER_ENDPOINT"); v != "" {
		cfg.Lookup.WeatherEndpoint = v
	}
	if v := os.Getenv("LOCALITY_GEO_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Lookup.GeoRPM = n
		}
	}
	if v := os.Getenv("LOCALITY_WEATHER_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Lookup.WeatherRPM = n
		}
	}
	if v := os.Getenv("LOCALITY_LATITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Location.Latitude = &f
		}
	}
	if v := os.Getenv("LOCALITY_LONGITUDE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Location.Longitude = &f
		}
	}
	if v := os.Getenv("LOCALITY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if os.Getenv("LOCALITY_OBSERVER_ENABLED") == "true" || os.Getenv("LOCALITY_OBSERVER_ENABLED") == "1" {
		cfg.Observer.Enabled = true
	}

	// Fallbacks
	if cfg.Lookup.Timeout.Duration <= 0 {
		cfg.Lookup.Timeout = Duration{5 * time.Second}
	}
	if cfg.Settings.Backend == "" {
		cfg.Settings.Backend = "json"
	}

	return cfg
}
