package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// startSpan opens the client span covering one request.
func (c *Client) startSpan(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	ctx, span := c.tracer.Start(ctx, "client.request", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("url", req.URL.String()),
	)

	return ctx, span
}

// tagRequest writes the propagation headers and an X-Request-ID onto req
// and returns the id. The trace id is used when valid, a random uuid
// otherwise. A caller supplied X-Request-ID is kept.
func (c *Client) tagRequest(ctx context.Context, span trace.Span, req *http.Request) string {
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	if id := req.Header.Get(headerRequestID); id != "" {
		return id
	}

	id := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		id = uuid.New().String()
	}
	req.Header.Set(headerRequestID, id)

	return id
}

func (c *Client) endSpan(span trace.Span, status int, err *NetworkError) {
	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}

	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Err.Error())
}
