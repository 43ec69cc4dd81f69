// Package log is a minimal logging sink for the store: plain formatted
// messages with call-site metadata, verbose-gated diagnostics and
// structured events serialized in toon format.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/toon-format/toon-go"
)

var (
	// if true, Verbosef() will log messages
	Verbose bool

	// Out is where log output goes. Defaults to stderr.
	Out io.Writer = os.Stderr

	// OnLog, if set, is called with every logged message
	// allows sending logs to other places
	OnLog func(s string)

	mu sync.Mutex
)

func write(s string) {
	mu.Lock()
	defer mu.Unlock()
	if Out != nil {
		io.WriteString(Out, s)
	}
	if OnLog != nil {
		OnLog(s)
	}
}

// caller returns file:line of the logging call site, skip frames above it
func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "?"
	}
	// keep the last 2 path elements, full paths are noise
	parts := strings.Split(filepath.ToSlash(file), "/")
	if n := len(parts); n > 2 {
		file = strings.Join(parts[n-2:], "/")
	}
	return file + ":" + strconv.Itoa(line)
}

func Logf(format string, args ...any) {
	s := format
	if len(args) > 0 {
		s = fmt.Sprintf(format, args...)
	}
	write(caller(1) + ": " + s)
}

func Verbosef(format string, args ...any) {
	if !Verbose {
		return
	}
	s := format
	if len(args) > 0 {
		s = fmt.Sprintf(format, args...)
	}
	write(caller(1) + ": " + s)
}

func GetCallstackFrames(skip int) []string {
	var callers [32]uintptr
	n := runtime.Callers(skip+1, callers[:])
	frames := runtime.CallersFrames(callers[:n])
	var cs []string
	for {
		frame, more := frames.Next()
		if !more {
			break
		}
		cs = append(cs, frame.File+":"+strconv.Itoa(frame.Line))
	}
	return cs
}

func GetCallstack(skip int) string {
	return strings.Join(GetCallstackFrames(skip+1), "\n")
}

// Errorf logs an error message along with the callstack
func Errorf(format string, args ...any) {
	s := format
	if len(args) > 0 {
		s = fmt.Sprintf(format, args...)
	}
	write(s + "\n" + GetCallstack(1) + "\n")
}

// Event logs a named event with key/value pairs in toon format
func Event(name string, vals ...any) {
	if len(vals)%2 != 0 {
		panic("Event: odd number of key/value args")
	}
	var d []byte
	if len(vals) > 0 {
		m := map[string]any{}
		for i := 0; i < len(vals); i += 2 {
			k := fmt.Sprintf("%v", vals[i])
			m[k] = vals[i+1]
		}
		d, _ = toon.Marshal(m)
	}
	ts := time.Now().UTC().Format(time.RFC3339)
	s := ts + " " + name + "\n"
	if len(d) > 0 {
		s += string(d)
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
	}
	write(s)
}
