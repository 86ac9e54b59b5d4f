// Package logger serializes log output across concurrently running lint
// workers. Every worker holds a send-only Logger handle; a single consumer
// goroutine owned by the Manager drains the channel, so lines never
// interleave mid-write no matter how workers race.
package logger

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Terminal glyphs shared by the aggregator and the diagnostic renderer.
var (
	CheckMark = color.New(color.FgGreen, color.Bold).Sprint("✔")
	CrossMark = color.New(color.FgRed, color.Bold).Sprint("✗")
	WarnMark  = color.New(color.FgYellow, color.Bold).Sprint("⚠")
	PlusMark  = color.New(color.FgBlue, color.Bold).Sprint("+")
)

// Kind classifies a log message.
type Kind int

const (
	KindInfo Kind = iota
	KindWarn
	KindError
	KindSuccess
	// KindCustom carries pre-rendered text (diagnostic lines with their own
	// coloring) written verbatim to the error stream.
	KindCustom
	kindDone // terminating sentinel, never sent by workers
)

// Message is one unit of log output.
type Message struct {
	Kind Kind
	Text string
}

// Manager owns the queue and its single consumer. Construct with NewManager
// before starting any worker and Close after all workers have finished; Close
// sends the sentinel and blocks until the queue is fully drained.
type Manager struct {
	ch     chan Message
	done   chan struct{}
	out    io.Writer
	errOut io.Writer
	stream bool
}

// queueDepth keeps sends effectively non-blocking for realistic lint runs.
const queueDepth = 256

// NewManager starts the consumer goroutine. When stream is false (parallel
// runs) per-file detail is swallowed and only the caller's final tallies
// appear, keeping the output legible.
func NewManager(out, errOut io.Writer, stream bool) *Manager {
	m := &Manager{
		ch:     make(chan Message, queueDepth),
		done:   make(chan struct{}),
		out:    out,
		errOut: errOut,
		stream: stream,
	}
	go m.consume()
	return m
}

// Logger returns a send-only handle safe for uncoordinated concurrent use.
func (m *Manager) Logger() *Logger { return &Logger{ch: m.ch} }

// Close terminates the consumer after the queue drains. All producers must
// be finished before calling Close.
func (m *Manager) Close() {
	m.ch <- Message{Kind: kindDone}
	<-m.done
}

func (m *Manager) consume() {
	defer close(m.done)
	for msg := range m.ch {
		if msg.Kind == kindDone {
			return
		}
		if !m.stream {
			continue
		}
		switch msg.Kind {
		case KindInfo:
			fmt.Fprintln(m.out, msg.Text)
		case KindSuccess:
			fmt.Fprintf(m.out, "[%s] %s\n", CheckMark, msg.Text)
		case KindWarn:
			fmt.Fprintf(m.errOut, "[%s] %s\n", WarnMark, msg.Text)
		case KindError:
			fmt.Fprintf(m.errOut, "[%s] %s\n", CrossMark, msg.Text)
		case KindCustom:
			fmt.Fprintln(m.errOut, msg.Text)
		}
	}
}

// Logger is a worker-side handle to the aggregator queue.
type Logger struct {
	ch chan<- Message
}

func (l *Logger) Info(text string)  { l.ch <- Message{Kind: KindInfo, Text: text} }
func (l *Logger) Infof(format string, args ...any) { l.Info(fmt.Sprintf(format, args...)) }

func (l *Logger) Warnf(format string, args ...any) {
	l.ch <- Message{Kind: KindWarn, Text: fmt.Sprintf(format, args...)}
}

func (l *Logger) Errorf(format string, args ...any) {
	l.ch <- Message{Kind: KindError, Text: fmt.Sprintf(format, args...)}
}

func (l *Logger) Successf(format string, args ...any) {
	l.ch <- Message{Kind: KindSuccess, Text: fmt.Sprintf(format, args...)}
}

// Custom forwards pre-rendered text untouched.
func (l *Logger) Custom(text string) { l.ch <- Message{Kind: KindCustom, Text: text} }
