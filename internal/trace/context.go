package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
	workerKey struct{}
)

// FromContext extracts the Tracer from context, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// SpanFromContext returns the span stored by Start or WithSpan, or nil.
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// WithSpan makes s the parent of spans started from the returned context.
func WithSpan(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanKey{}, s)
}

// WithWorker tags spans started from the returned context with a driver
// worker slot.
func WithWorker(ctx context.Context, worker int) context.Context {
	return context.WithValue(ctx, workerKey{}, worker)
}

// Start begins a span under the span in ctx, or a root span on the tracer in
// ctx, and returns a context carrying it.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	worker, _ := ctx.Value(workerKey{}).(int)
	parent := SpanFromContext(ctx)
	if parent != nil && worker == 0 {
		worker = parent.worker
	}
	s := start(FromContext(ctx), parent, scope, name, worker)
	return WithSpan(ctx, s), s
}
