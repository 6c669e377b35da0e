package observer

import (
	"context"
	"strings"
	"time"

	"github.com/nevindra/locality"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservedProcessor wraps a locality.TurnProcessor with OTEL instrumentation.
type ObservedProcessor struct {
	inner locality.TurnProcessor
	inst  *Instruments
}

// WrapProcessor returns an instrumented turn processor.
func WrapProcessor(inner locality.TurnProcessor, inst *Instruments) *ObservedProcessor {
	return &ObservedProcessor{inner: inner, inst: inst}
}

// ProcessTurn implements locality.TurnProcessor.
func (o *ObservedProcessor) ProcessTurn(ctx context.Context, t *locality.Turn) error {
	ctx, span := o.inst.Tracer.Start(ctx, "turn.process", trace.WithAttributes(
		AttrTurnID.String(t.ID),
	))
	defer span.End()
	start := time.Now()
	before := t.Text

	err := o.inner.ProcessTurn(ctx, t)

	durationMs := float64(time.Since(start).Milliseconds())
	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	n := appendedFragments(before, t.Text)
	span.SetAttributes(
		AttrTurnStatus.String(status),
		AttrTurnAnnotated.Bool(n > 0),
	)

	o.inst.Turns.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	o.inst.TurnDuration.Record(ctx, durationMs)
	o.inst.Fragments.Record(ctx, int64(n))

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("turn processed"))
	rec.AddAttributes(
		otellog.String("turn.id", t.ID),
		otellog.String("turn.status", status),
		otellog.Int("turn.fragments", n),
		otellog.Float64("turn.duration_ms", durationMs),
	)
	o.inst.Logger.Emit(ctx, rec)

	return err
}

// appendedFragments counts the fragments in an annotation appended to
// before, or 0 if after is not before plus an annotation.
func appendedFragments(before, after string) int {
	suffix, ok := strings.CutPrefix(after, before)
	if !ok || !strings.HasPrefix(suffix, "\n[") || !strings.HasSuffix(suffix, "]") {
		return 0
	}
	return strings.Count(suffix, " | ") + 1
}
