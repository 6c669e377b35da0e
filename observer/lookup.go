package observer

import (
	"context"
	"time"

	"github.com/nevindra/locality"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservedLocator wraps a locality.Locator with OTEL instrumentation.
type ObservedLocator struct {
	inner locality.Locator
	inst  *Instruments
}

// WrapLocator returns an instrumented locator.
func WrapLocator(inner locality.Locator, inst *Instruments) *ObservedLocator {
	return &ObservedLocator{inner: inner, inst: inst}
}

// Locate implements locality.Locator.
func (o *ObservedLocator) Locate(ctx context.Context) (locality.Location, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "lookup.location", trace.WithAttributes(
		AttrLookupKind.String(kindLocation),
	))
	defer span.End()
	start := time.Now()

	loc, err := o.inner.Locate(ctx)

	if err == nil {
		span.SetAttributes(
			AttrLocationCity.String(loc.City),
			AttrLocationCountry.String(loc.Country),
		)
	}
	o.inst.record(ctx, span, kindLocation, start, err)
	return loc, err
}

// ObservedWeather wraps a locality.WeatherProvider with OTEL instrumentation.
type ObservedWeather struct {
	inner locality.WeatherProvider
	inst  *Instruments
}

// WrapWeather returns an instrumented weather provider.
func WrapWeather(inner locality.WeatherProvider, inst *Instruments) *ObservedWeather {
	return &ObservedWeather{inner: inner, inst: inst}
}

// Current implements locality.WeatherProvider.
func (o *ObservedWeather) Current(ctx context.Context, at locality.Coordinates) (locality.Conditions, error) {
	ctx, span := o.inst.Tracer.Start(ctx, "lookup.weather", trace.WithAttributes(
		AttrLookupKind.String(kindWeather),
	))
	defer span.End()
	start := time.Now()

	cond, err := o.inner.Current(ctx, at)

	if err == nil {
		span.SetAttributes(AttrWeatherCode.Int(cond.Code))
	}
	o.inst.record(ctx, span, kindWeather, start, err)
	return cond, err
}

// record finishes span bookkeeping shared by both lookups.
func (inst *Instruments) record(ctx context.Context, span trace.Span, kind string, start time.Time, err error) {
	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(AttrLookupStatus.String(status))

	inst.LookupRequests.Add(ctx, 1, metric.WithAttributes(
		AttrLookupKind.String(kind),
		attribute.String("status", status),
	))
	inst.LookupDuration.Record(ctx, durationMs, metric.WithAttributes(
		AttrLookupKind.String(kind),
	))

	var rec otellog.Record
	if err != nil {
		rec.SetSeverity(otellog.SeverityWarn)
	} else {
		rec.SetSeverity(otellog.SeverityInfo)
	}
	rec.SetBody(otellog.StringValue("lookup completed"))
	rec.AddAttributes(
		otellog.String("lookup.kind", kind),
		otellog.String("lookup.status", status),
		otellog.Float64("lookup.duration_ms", durationMs),
	)
	inst.Logger.Emit(ctx, rec)
}
