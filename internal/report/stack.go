package report

import (
	"runtime"
	"strings"

	"faultline/internal/constants"
)

// CollectStack captures up to 20 frames above the caller, most-recent first.
// skip counts additional pipeline frames to exclude so the stack starts at
// the application call site.
func CollectStack(skip int) []Frame {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return nil
	}

	callers := runtime.CallersFrames(pcs[:n])
	stack := make([]Frame, 0, constants.MaxStackFrames)

	for {
		frame, more := callers.Next()

		if !isRuntimeFrame(frame) {
			stack = append(stack, newFrame(frame))
			if len(stack) >= constants.MaxStackFrames {
				break
			}
		}

		if !more {
			break
		}
	}

	return stack
}

// Origin picks the originating file and line: the first frame that is not
// vendored third-party code and, when a project root is configured, lives
// under it. Falls back to the topmost frame.
func Origin(stack []Frame, projectRoot string) (string, int) {
	for _, frame := range stack {
		if IsVendored(frame.File) {
			continue
		}
		if projectRoot != "" && !strings.HasPrefix(frame.File, projectRoot) {
			continue
		}
		return frame.File, frame.Line
	}

	if len(stack) > 0 {
		return stack[0].File, stack[0].Line
	}
	return "", 0
}

// IsVendored reports whether a file path belongs to vendored or toolchain
// code rather than the project.
func IsVendored(file string) bool {
	return strings.Contains(file, "/vendor/") ||
		strings.Contains(file, "/pkg/mod/") ||
		strings.HasPrefix(file, runtime.GOROOT())
}

func isRuntimeFrame(frame runtime.Frame) bool {
	return strings.HasPrefix(frame.Function, "runtime.") ||
		strings.HasPrefix(frame.Function, "testing.")
}

// newFrame splits a runtime function name like
// "faultline/internal/report.(*Builder).Build" into class and function.
func newFrame(frame runtime.Frame) Frame {
	full := frame.Function
	if idx := strings.LastIndex(full, "/"); idx >= 0 {
		full = full[idx+1:]
	}

	parts := strings.SplitN(full, ".", 3)

	f := Frame{
		File: frame.File,
		Line: frame.Line,
	}

	switch len(parts) {
	case 3:
		// pkg.(*Receiver).Method
		f.Class = strings.Trim(parts[1], "(*)")
		f.Function = parts[2]
		f.CallType = "method"
	case 2:
		f.Function = parts[1]
		f.CallType = "function"
	default:
		f.Function = full
		f.CallType = "function"
	}

	return f
}
