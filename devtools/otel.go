package devtools

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelHooks emits one span per lifecycle event and per computed/effect
// run, tagged with the node's id and kind. It is grounded on the span
// patterns an orchestration engine in the same retrieval pack (LangGraph's
// Go port) uses for its own node lifecycle events.
type OTelHooks struct {
	tracer trace.Tracer
}

// NewOTelHooks returns hooks that emit spans via tracer. A nil tracer falls
// back to otel.Tracer("reactor").
func NewOTelHooks(tracer trace.Tracer) *OTelHooks {
	if tracer == nil {
		tracer = otel.Tracer("reactor")
	}
	return &OTelHooks{tracer: tracer}
}

func (h *OTelHooks) RegisterNode(id uint64, kind string) {
	_, span := h.tracer.Start(context.Background(), "reactor.node.register",
		trace.WithAttributes(attribute.Int64("node.id", int64(id)), attribute.String("node.kind", kind)))
	span.End()
}

func (h *OTelHooks) UnregisterNode(id uint64) {
	_, span := h.tracer.Start(context.Background(), "reactor.node.unregister",
		trace.WithAttributes(attribute.Int64("node.id", int64(id))))
	span.End()
}

func (h *OTelHooks) RecordUpdate(id uint64, kind string) {
	_, span := h.tracer.Start(context.Background(), "reactor.node.update",
		trace.WithAttributes(attribute.Int64("node.id", int64(id)), attribute.String("node.kind", kind)))
	span.End()
}

func (h *OTelHooks) WithTiming(id uint64, kind string, fn func()) {
	_, span := h.tracer.Start(context.Background(), "reactor.node.run",
		trace.WithAttributes(attribute.Int64("node.id", int64(id)), attribute.String("node.kind", kind)))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprint(r))
			panic(r)
		}
	}()
	fn()
}
