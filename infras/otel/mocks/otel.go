package mocks

import (
	"context"
	"sync"

	"unires/infras/otel"
)

// Recorder is an in-memory otel.Otel for tests. It keeps the span names that
// were opened and the errors traced on them.
type Recorder struct {
	mu     sync.Mutex
	Spans  []string
	Errors []error
	Attrs  map[string]any
}

// NewOtel returns a tracer that only records.
func NewOtel() otel.Otel {
	return NewRecorder()
}

func NewRecorder() *Recorder {
	return &Recorder{Attrs: map[string]any{}}
}

func (r *Recorder) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Spans = append(r.Spans, spanName)

	return ctx, &scope{recorder: r}
}

func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

// TracedErrors returns a copy of the errors traced so far.
func (r *Recorder) TracedErrors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]error(nil), r.Errors...)
}

// Attr returns the last value set for key on any scope.
func (r *Recorder) Attr(key string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.Attrs[key]

	return v, ok
}

type scope struct {
	recorder *Recorder
}

func (s *scope) End() {}

func (s *scope) AddEvent(_ string) {}

func (s *scope) TraceError(err error) {
	if err == nil {
		return
	}

	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.recorder.Errors = append(s.recorder.Errors, err)
}

func (s *scope) TraceIfError(err error) {
	s.TraceError(err)
}

func (s *scope) SetAttribute(key string, value any) {
	s.recorder.mu.Lock()
	defer s.recorder.mu.Unlock()

	s.recorder.Attrs[key] = value
}

func (s *scope) SetAttributes(attributes map[string]any) {
	for k, v := range attributes {
		s.SetAttribute(k, v)
	}
}
