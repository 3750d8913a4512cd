package statediagram

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName      = "statediagram"
	convertSpanName = "statediagram.convert"
)

// startConvertSpan creates the span covering one conversion.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller
func startConvertSpan(ctx context.Context, conversionID string) (context.Context, trace.Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, convertSpanName)
	span.SetAttributes(attribute.String("conversion_id", conversionID))

	return ctx, span
}

// finishConvertSpan records the outcome of a conversion on its span.
func finishConvertSpan(span trace.Span, d *Diagram, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return
	}

	span.SetAttributes(
		attribute.Int("states", len(d.States)),
		attribute.Int("transitions", len(d.Transitions)),
		attribute.Int("notes", len(d.Notes)),
		attribute.Int("history_states", len(d.HistoryStates)),
	)
	span.SetStatus(codes.Ok, "")
}
