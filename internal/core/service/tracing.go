package service

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/organizae/users-service/internal/core/domain"
)

var tracer = otel.Tracer("github.com/organizae/users-service/internal/core/service")

// finishSpan ends span, marking it failed only for internal faults. Domain
// outcomes such as not found or forbidden are not span errors.
func finishSpan(span trace.Span, err error) {
	if err != nil && domain.KindOf(err) == domain.KindInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
