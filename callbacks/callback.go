// Package callbacks provides tool.Callback implementations to observe
// Toolbox tool calls.
package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/toolbox/tool"
	"github.com/effective-security/xlog"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ tool.Callback = (*Noop)(nil)
	_ tool.Callback = (*Printer)(nil)
	_ tool.Callback = (*PackageLogger)(nil)
	_ tool.Callback = (*Fanout)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []tool.Callback
}

func NewFanout(callbacks ...tool.Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback tool.Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnToolStart(ctx context.Context, t tool.ITool, input string) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, t, input)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, t tool.ITool, input string, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, t, input, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, t tool.ITool, input string, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, t, input, err)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnToolStart(ctx context.Context, t tool.ITool, input string) {}
func (l *Noop) OnToolEnd(ctx context.Context, t tool.ITool, input string, output string) {
}
func (l *Noop) OnToolError(ctx context.Context, t tool.ITool, input string, err error) {
}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnToolStart(ctx context.Context, t tool.ITool, input string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Start: %s\n", t.Name())
	fmt.Fprintf(l.Out, "Input: %s\n", input)
}

func (l *Printer) OnToolEnd(ctx context.Context, t tool.ITool, input string, output string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool End: %s\n", t.Name())
	if l.Mode == ModeVerbose {
		fmt.Fprintf(l.Out, "Output: %s\n", output)
	}
}

func (l *Printer) OnToolError(ctx context.Context, t tool.ITool, input string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Tool Error: %s: %s\n", t.Name(), err.Error())
}

// PackageLogger is a callback handler that logs the events with xlog.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnToolStart(ctx context.Context, t tool.ITool, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"tool", t.Name(),
		"status", "started",
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, t tool.ITool, input string, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"tool", t.Name(),
		"status", "completed",
		"output_len", len(output),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, t tool.ITool, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"tool", t.Name(),
		"status", "failed",
		"err", err.Error(),
	)
}
