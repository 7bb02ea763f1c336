package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
)

// SpanContext is the span a context currently runs under.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// WithTracer attaches t to ctx; nil attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the attached tracer or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// CurrentSpan returns the span ctx runs under, zero when there is none.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// Start opens a child of the current span with the context's tracer and
// returns a context carrying it. Disabled spans leave ctx unchanged.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	span := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if !span.live() {
		return ctx, span
	}
	return context.WithValue(ctx, spanKey{}, SpanContext{SpanID: span.id, GID: span.gid}), span
}
