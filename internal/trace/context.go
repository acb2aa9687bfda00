package trace

import "context"

type tracerKey struct{}
type spanKey struct{}

// spanContext is what nested spans inherit from the current one.
type spanContext struct {
	id       uint64
	module   string
	function string
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

func current(ctx context.Context) spanContext {
	if ctx == nil {
		return spanContext{}
	}
	sc, _ := ctx.Value(spanKey{}).(spanContext)
	return sc
}

// StartSpan opens a span under the current one and returns a context in
// which it is current. When scope is not traced the span is nil and ctx is
// returned unchanged.
func StartSpan(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	return start(ctx, scope, name, func(*Span) {})
}

// StartModule opens a module span for the named work on module.
func StartModule(ctx context.Context, name, module string) (context.Context, *Span) {
	return start(ctx, ScopeModule, name, func(s *Span) {
		s.module = module
		s.function = ""
	})
}

// StartFunction opens a function span for a qualified function name
// declared in module.
func StartFunction(ctx context.Context, module, qualified string) (context.Context, *Span) {
	return start(ctx, ScopeFunction, qualified, func(s *Span) {
		s.module = module
		s.function = qualified
	})
}

func start(ctx context.Context, scope Scope, name string, fill func(*Span)) (context.Context, *Span) {
	parent := current(ctx)
	s := begin(FromContext(ctx), scope, name, parent)
	if s == nil {
		return ctx, nil
	}
	fill(s)
	s.emitBegin()
	return context.WithValue(ctx, spanKey{}, spanContext{id: s.id, module: s.module, function: s.function}), s
}
