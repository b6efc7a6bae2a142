package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/linkbudget/core"
	"github.com/signalsfoundry/linkbudget/internal/logging"
)

// LogObserver logs every pipeline stage at debug level.
func LogObserver(ctx context.Context, log logging.Logger) core.StageObserver {
	if log == nil {
		log = logging.Noop()
	}
	return core.StageObserverFunc(func(stage core.Stage, v float64) {
		log.Debug(ctx, "link budget stage",
			logging.String("stage", stage.String()),
			logging.Float64("value", v),
			logging.String("unit", stage.Unit()),
		)
	})
}

// TracingObserver adds one span event per pipeline stage.
func TracingObserver(span trace.Span) core.StageObserver {
	return core.StageObserverFunc(func(stage core.Stage, v float64) {
		if span == nil || !span.IsRecording() {
			return
		}
		span.AddEvent(stage.String(), trace.WithAttributes(
			attribute.Float64("value", v),
			attribute.String("unit", stage.Unit()),
		))
	})
}
