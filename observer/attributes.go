package observer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys for locality spans and metrics.
var (
	AttrLookupKind   = attribute.Key("lookup.kind")
	AttrLookupStatus = attribute.Key("lookup.status")

	AttrLocationCity    = attribute.Key("location.city")
	AttrLocationCountry = attribute.Key("location.country")

	AttrWeatherCode = attribute.Key("weather.code")

	AttrTurnID        = attribute.Key("turn.id")
	AttrTurnStatus    = attribute.Key("turn.status")
	AttrTurnAnnotated = attribute.Key("turn.annotated")
)

// Lookup kinds.
const (
	kindLocation = "location"
	kindWeather  = "weather"
)
