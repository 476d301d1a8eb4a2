package report

// Payload is the diagnostic record delivered to the collector. It is
// immutable once built.
type Payload struct {
	ErrorHash     string   `json:"error_hash"`
	Project       string   `json:"project"`
	Environment   string   `json:"environment"`
	ShouldAutofix bool     `json:"should_autofix"`
	Timestamp     string   `json:"timestamp"`
	Error         Info     `json:"error"`
	Source        *Source  `json:"source,omitempty"`
	Request       *Request `json:"request,omitempty"`
	User          *User    `json:"user,omitempty"`
	App           App      `json:"app"`
	Context       *Context `json:"context"`
	Git           *Git     `json:"git,omitempty"`
}

// Info describes the captured error itself.
type Info struct {
	Class   string  `json:"class"`
	Message string  `json:"message"`
	Code    int     `json:"code"`
	File    string  `json:"file"`
	Line    int     `json:"line"`
	Stack   []Frame `json:"stack"`
}

type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Class    string `json:"class,omitempty"`
	Function string `json:"function"`
	CallType string `json:"call_type,omitempty"`
}

// Source carries the originating file text plus a context window and related
// project files. Source text is deliberately not redacted.
type Source struct {
	File    string            `json:"file"`
	Line    int               `json:"line"`
	Window  map[int]string    `json:"context"`
	Content string            `json:"content"`
	Related map[string]string `json:"related,omitempty"`
}

type Request struct {
	URL       string                 `json:"url"`
	Method    string                 `json:"method"`
	Input     map[string]interface{} `json:"input"`
	Headers   map[string]string      `json:"headers"`
	ClientIP  string                 `json:"client_ip"`
	UserAgent string                 `json:"user_agent"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

type App struct {
	FrameworkVersion string `json:"framework_version"`
	RuntimeVersion   string `json:"runtime_version"`
	Locale           string `json:"locale"`
}

type Git struct {
	Branch string `json:"branch"`
	Commit string `json:"commit"`
}

// Coded errors contribute a numeric code to the payload.
type Coded interface {
	error
	ErrorCode() int
}
