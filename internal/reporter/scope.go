package reporter

import (
	"context"
	"net/http"
	"sync"

	"faultline/internal/report"
	"faultline/pkg/metrics"
)

// Scope holds the mutable state of one logical unit of work: the accumulated
// custom context and the optional user and request. It must not be shared
// between unrelated units of work.
type Scope struct {
	notifier *Notifier

	mu      sync.Mutex
	context *report.Context
	user    *report.User
	request *http.Request
}

// SetContext merges key/value pairs into the accumulated context. Later
// writes for the same key overwrite earlier ones.
func (s *Scope) SetContext(kv map[string]interface{}) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.context.SetAll(kv)
	return s
}

// SetUser replaces the user sub-object.
func (s *Scope) SetUser(id, email, name string) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = &report.User{
		ID:    id,
		Email: email,
		Name:  name,
	}
	return s
}

// WithRequest attaches the active HTTP request so its sanitized details are
// included in subsequent reports.
func (s *Scope) WithRequest(r *http.Request) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.request = r
	return s
}

// Capture reports an error through the pipeline. It never panics and never
// surfaces pipeline failures to the caller: a fault in this subsystem must
// not mask or break the application failure it is reporting.
func (s *Scope) Capture(ctx context.Context, err error, extra map[string]interface{}) {
	defer func() {
		if r := recover(); r != nil {
			metrics.CapturesTotal.WithLabelValues("failed").Inc()
			s.notifier.log.ErrorwCtx(ctx, "Capture pipeline panicked",
				"panic", r,
			)
		}
	}()

	if err == nil {
		return
	}

	_, dispatchErr := s.notifier.process(ctx, err, s.snapshot(), extra, 1)
	if dispatchErr != nil {
		// Already logged with full detail by the delivery layer.
		s.notifier.log.DebugwCtx(ctx, "Capture finished with delivery failure",
			"error", dispatchErr,
		)
	}
}

func (s *Scope) snapshot() report.ScopeState {
	s.mu.Lock()
	defer s.mu.Unlock()

	var user *report.User
	if s.user != nil {
		u := *s.user
		user = &u
	}

	return report.ScopeState{
		Context: s.context.Clone(),
		User:    user,
		Request: s.request,
	}
}
