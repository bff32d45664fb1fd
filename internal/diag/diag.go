// Package diag collects the warnings and traces produced while a score is
// converted.
//
// Musical anomalies are never returned as errors. They are reported to a Log,
// which keeps them for later inspection, renders them in the user's
// language and passes them on to a sink (log.Printf by default).
package diag

import (
	"fmt"
	"log"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/divVerent/msrconverser/internal/errors"
)

// TraceFlags select which traces are printed.
type TraceFlags uint

const (
	TraceMeasures TraceFlags = 1 << iota
	TraceMeasuresDetails
	TracePositions
	TraceHarmonies
	TraceFiguredBass
	TraceClones
	TraceMIDI
)

var traceNames = map[string]TraceFlags{
	"measures":         TraceMeasures,
	"measures-details": TraceMeasuresDetails,
	"positions":        TracePositions,
	"harmonies":        TraceHarmonies,
	"figured-bass":     TraceFiguredBass,
	"clones":           TraceClones,
	"midi":             TraceMIDI,
}

// ParseTraceFlags combines the named trace flags. "all" enables everything.
func ParseTraceFlags(names []string) (TraceFlags, error) {
	var flags TraceFlags
	for _, name := range names {
		if name == "all" {
			for _, f := range traceNames {
				flags |= f
			}
			continue
		}
		f, found := traceNames[name]
		if !found {
			return 0, &errors.ParseError{Type: "TraceFlags", Value: name}
		}
		flags |= f
	}
	return flags, nil
}

// Diagnostic is one collected warning.
type Diagnostic struct {
	// Line is the input line the warning refers to, or 0.
	Line int

	// Key is the untranslated message format.
	Key string

	// Text is the rendered message in the log's language.
	Text string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d: %s", d.Line, d.Text)
	}
	return d.Text
}

// Options configure a Log.
type Options struct {
	// Language selects the message language. Empty means detect.
	Language string

	// Strict upgrades recoverable internal warnings to errors.
	Strict bool

	Trace TraceFlags

	// Sink receives every warning as it is reported. Nil means log.Printf.
	Sink func(Diagnostic)
}

// Log is the diagnostics side channel of one conversion.
type Log struct {
	lang    language.Tag
	printer *message.Printer
	strict  bool
	trace   TraceFlags
	sink    func(Diagnostic)
	diags   []Diagnostic

	// Indenter prefixes traces and dumps.
	Indenter Indenter
}

// New creates a Log.
func New(opts Options) *Log {
	lang := Language(opts.Language)
	sink := opts.Sink
	if sink == nil {
		sink = func(d Diagnostic) {
			log.Printf("Warning: %v.", d)
		}
	}
	return &Log{
		lang:    lang,
		printer: message.NewPrinter(lang),
		strict:  opts.Strict,
		trace:   opts.Trace,
		sink:    sink,
	}
}

// Discard returns a Log that collects but does not print anything.
func Discard() *Log {
	return New(Options{Language: "en", Sink: func(Diagnostic) {}})
}

func (l *Log) Language() language.Tag {
	return l.lang
}

func (l *Log) Strict() bool {
	return l.strict
}

// Tracing reports whether any of the given flags is enabled.
func (l *Log) Tracing(f TraceFlags) bool {
	return l.trace&f != 0
}

// Warn records a warning. key is a message format from this package's
// catalog; it is translated before being formatted with args.
func (l *Log) Warn(line int, key string, args ...any) {
	d := Diagnostic{
		Line: line,
		Key:  key,
		Text: l.printer.Sprintf(key, args...),
	}
	l.diags = append(l.diags, d)
	l.sink(d)
}

// Tracef prints a trace line if any of the given flags is enabled. Traces
// are not collected and not translated.
func (l *Log) Tracef(f TraceFlags, format string, args ...any) {
	if !l.Tracing(f) {
		return
	}
	log.Print(l.Indenter.Prefix() + strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// Diagnostics returns the warnings collected so far.
func (l *Log) Diagnostics() []Diagnostic {
	return l.diags
}

// Count returns how many warnings with the given key were collected.
func (l *Log) Count(key string) int {
	n := 0
	for _, d := range l.diags {
		if d.Key == key {
			n++
		}
	}
	return n
}
