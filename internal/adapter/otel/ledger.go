package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/courtyardhq/courtyard/internal/domain"
)

const tracerName = "github.com/courtyardhq/courtyard/internal/adapter/otel"

// TracingLedger wraps a domain.LedgerRepository with OpenTelemetry tracing.
type TracingLedger struct {
	next   domain.LedgerRepository
	tracer trace.Tracer
}

// Compile-time check: TracingLedger implements domain.LedgerRepository.
var _ domain.LedgerRepository = (*TracingLedger)(nil)

// NewTracingLedger creates a tracing decorator around the given ledger.
func NewTracingLedger(next domain.LedgerRepository) *TracingLedger {
	return &TracingLedger{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (l *TracingLedger) History(ctx context.Context, kind domain.Kind, entityID string) ([]domain.StatusLogEntry, error) {
	ctx, span := l.tracer.Start(ctx, "LedgerRepository.History",
		trace.WithAttributes(
			attribute.String("entity.kind", string(kind)),
			attribute.String("entity.id", entityID),
		),
	)
	defer span.End()

	entries, err := l.next.History(ctx, kind, entityID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(entries)))
	}
	return entries, err
}
