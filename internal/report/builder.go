package report

import (
	"net/http"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"faultline/internal/config"
	"faultline/internal/constants"
	"faultline/internal/fingerprint"
)

// SourceReader loads the source block for an originating location. The
// concrete implementation lives in internal/source.
type SourceReader interface {
	Read(file string, line int, stack []Frame) *Source
}

// ScopeState is the mutable per-unit-of-work state a Scope accumulated
// before the error was captured.
type ScopeState struct {
	Context *Context
	User    *User
	Request *http.Request
}

// Builder composes delivery payloads from an error, its stack, and the
// surrounding scope state.
type Builder struct {
	cfg     *config.Config
	sources SourceReader
	now     func() time.Time
}

func NewBuilder(cfg *config.Config, sources SourceReader) *Builder {
	return &Builder{
		cfg:     cfg,
		sources: sources,
		now:     time.Now,
	}
}

// Build assembles the full diagnostic record. Optional blocks (source,
// request, user, git) stay nil when the corresponding information is
// unavailable.
func (b *Builder) Build(err error, stack []Frame, state ScopeState, extra map[string]interface{}) *Payload {
	file, line := Origin(stack, b.cfg.Source.ProjectRoot)
	class := ClassOf(err)
	message := err.Error()

	if len(stack) > constants.MaxStackFrames {
		stack = stack[:constants.MaxStackFrames]
	}

	payload := &Payload{
		ErrorHash:     fingerprint.Hash(class, message, file, line),
		Project:       b.cfg.Project,
		Environment:   b.cfg.Environment,
		ShouldAutofix: slices.Contains(b.cfg.AutofixEnvironments, b.cfg.Environment),
		Timestamp:     b.now().UTC().Format(time.RFC3339),
		Error: Info{
			Class:   class,
			Message: message,
			Code:    CodeOf(err),
			File:    file,
			Line:    line,
			Stack:   stack,
		},
		App:     appInfo(),
		Context: b.mergeContext(state.Context, extra),
		Git:     GitInfo(b.projectRoot()),
	}

	if b.cfg.Source.Enabled && b.sources != nil {
		payload.Source = b.sources.Read(file, line, stack)
	}

	if state.Request != nil {
		payload.Request = FromRequest(state.Request, b.cfg.SensitiveFields)
	}

	if state.User != nil {
		user := *state.User
		payload.User = &user
	}

	return payload
}

// mergeContext applies the accumulated scope context first, then per-call
// extras, so extras win on key collision.
func (b *Builder) mergeContext(accumulated *Context, extra map[string]interface{}) *Context {
	merged := NewContext()
	if accumulated != nil {
		merged = accumulated.Clone()
	}
	if len(extra) > 0 {
		merged.SetAll(extra)
	}
	return merged
}

func (b *Builder) projectRoot() string {
	if b.cfg.Source.ProjectRoot != "" {
		return b.cfg.Source.ProjectRoot
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func appInfo() App {
	return App{
		FrameworkVersion: gin.Version,
		RuntimeVersion:   runtime.Version(),
		Locale:           os.Getenv("LANG"),
	}
}
