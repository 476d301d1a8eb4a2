package source

import (
	"os"
	"strings"

	"faultline/internal/constants"
	"faultline/internal/report"
)

// Reader loads surrounding lines and related project files for an error's
// originating location.
type Reader struct {
	contextLines int
	projectRoot  string
}

func NewReader(contextLines int, projectRoot string) *Reader {
	if contextLines <= 0 {
		contextLines = constants.DefaultContextLines
	}
	return &Reader{
		contextLines: contextLines,
		projectRoot:  projectRoot,
	}
}

// Read returns the source block for the given file and line, or nil when the
// file is not readable. Related files are collected from the stack,
// most-recent first, skipping vendored and out-of-project frames.
func (r *Reader) Read(file string, line int, stack []report.Frame) *report.Source {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil
	}

	return &report.Source{
		File:    file,
		Line:    line,
		Window:  r.window(string(content), line),
		Content: string(content),
		Related: r.relatedFiles(file, stack),
	}
}

// window maps 1-based line numbers to trimmed text for the interval
// [line-N-1, line+N), clamped to file bounds.
func (r *Reader) window(content string, line int) map[int]string {
	lines := strings.Split(content, "\n")

	start := line - r.contextLines - 1
	if start < 0 {
		start = 0
	}
	end := line + r.contextLines
	if end > len(lines) {
		end = len(lines)
	}

	window := make(map[int]string, end-start)
	for i := start; i < end; i++ {
		window[i+1] = strings.TrimSpace(lines[i])
	}
	return window
}

// relatedFiles walks up to 15 stack frames and reads full contents for up to
// 5 distinct project files. The originating file is excluded; individual
// read errors are skipped.
func (r *Reader) relatedFiles(origin string, stack []report.Frame) map[string]string {
	related := make(map[string]string, constants.MaxRelatedFiles)

	frames := stack
	if len(frames) > constants.MaxWalkFrames {
		frames = frames[:constants.MaxWalkFrames]
	}

	for _, frame := range frames {
		if len(related) >= constants.MaxRelatedFiles {
			break
		}

		file := frame.File
		if file == "" || file == origin {
			continue
		}
		if _, seen := related[file]; seen {
			continue
		}
		if report.IsVendored(file) {
			continue
		}
		if r.projectRoot != "" && !strings.HasPrefix(file, r.projectRoot) {
			continue
		}

		content, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		related[file] = string(content)
	}

	if len(related) == 0 {
		return nil
	}
	return related
}
