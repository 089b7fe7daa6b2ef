package logging

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"
)

// Frames from the framework's request dispatch and the runtime panic
// machinery are noise in a traceback and are left out.
var suppressedFrames = []*regexp.Regexp{
	regexp.MustCompile(`github\.com/labstack/echo/v4(@[^/]+)?/`),
	regexp.MustCompile(`/src/net/http/server\.go$`),
	regexp.MustCompile(`/src/runtime/(panic\.go|asm_\w+\.s)$`),
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Exception returns a field carrying the rendered traceback of err.
func Exception(err error) zap.Field {
	return zap.Strings(FieldExceptions, FormatError(err))
}

// PanicException returns a field carrying the rendered traceback of a
// recovered panic value and the stack captured at recovery.
func PanicException(recovered any, stack []uintptr) zap.Field {
	return zap.Strings(FieldExceptions, FormatPanic(recovered, stack))
}

// FormatError renders err, its wrapped causes and the deepest stack trace
// found in the chain.
func FormatError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{fmt.Sprintf("%T: %s", err, err.Error())}
	var stack pkgerrors.StackTrace
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		if cur != err {
			lines = append(lines, fmt.Sprintf("caused by %T: %s", cur, cur.Error()))
		}
		if st, ok := cur.(stackTracer); ok {
			stack = st.StackTrace()
		}
	}

	if len(stack) > 0 {
		pcs := make([]uintptr, len(stack))
		for i, f := range stack {
			pcs[i] = uintptr(f)
		}
		lines = append(lines, formatFrames(pcs)...)
	}
	return lines
}

// FormatPanic renders a recovered panic value with the given call stack.
func FormatPanic(recovered any, stack []uintptr) []string {
	lines := []string{fmt.Sprintf("panic: %v", recovered)}
	if err, ok := recovered.(error); ok {
		if chain := FormatError(err); len(chain) > 1 {
			lines = append(lines, chain[1:]...)
		}
	}
	return append(lines, formatFrames(stack)...)
}

// CaptureStack records the caller's stack, skipping skip frames above it.
func CaptureStack(skip int) []uintptr {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

func formatFrames(pcs []uintptr) []string {
	var lines []string
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		if frame.Function != "" && !suppressedFrame(frame.File) {
			lines = append(lines,
				"  "+frame.Function,
				fmt.Sprintf("    %s:%d", frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return lines
}

func suppressedFrame(file string) bool {
	for _, pattern := range suppressedFrames {
		if pattern.MatchString(file) {
			return true
		}
	}
	return false
}
