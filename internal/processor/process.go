// Package processor converts score descriptions: it builds the score,
// finalizes it and emits MIDI files.
package processor

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/msrconverser/internal/builder"
	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/msr"
)

// Result is what one conversion produced.
type Result struct {
	// Score is the finalized score.
	Score *msr.Score

	Output map[OutputKey]*smf.SMF

	// Diagnostics are the warnings reported while converting.
	Diagnostics []diag.Diagnostic
}

// Process converts the score description desc. Warnings are passed to sink
// as they occur; nil logs them.
func Process(desc *builder.Score, config *Config, options *Options, sink func(diag.Diagnostic)) (*Result, error) {
	if options == nil {
		options = &Options{}
	}
	cfg := Effective(config, options)
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	trace, err := diag.ParseTraceFlags(cfg.Trace)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	l := diag.New(diag.Options{
		Language: cfg.Language,
		Strict:   cfg.Strict,
		Trace:    trace,
		Sink:     sink,
	})
	ctx := msr.NewContext(l)

	s, err := builder.Build(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("could not build score: %w", err)
	}
	if options.Title != "" {
		s.Title = options.Title
	}
	err = s.Finalize()
	if err != nil {
		return nil, fmt.Errorf("could not finalize score: %w", err)
	}

	ctx.SetPass("%v emit", s.ID)
	e, err := newEmitter(&cfg, l)
	if err != nil {
		return nil, err
	}
	b := findBars(s, cfg.TicksPerQuarter)
	output := map[OutputKey]*smf.SMF{}
	finish := func(key OutputKey, include func(p *msr.Part) bool) error {
		mid, names := e.emit(s, include)
		if options.TempoFactor != 0 && options.TempoFactor != 1 {
			err := adjustTempo(mid, options.TempoFactor)
			if err != nil {
				return fmt.Errorf("could not adjust tempo of %v: %w", key, err)
			}
		}
		err := removeRedundantNoteEvents(mid, l, names)
		if err != nil {
			return fmt.Errorf("could not clean up %v: %w", key, err)
		}
		sortNoteOffFirst(mid)
		dumpTempo(l, key.String(), mid, b)
		output[key] = mid
		return nil
	}

	err = finish(OutputKey{Special: All}, nil)
	if err != nil {
		return nil, err
	}
	if cfg.PerPart {
		for _, p := range s.Parts() {
			err = finish(OutputKey{Special: PartOnly, Part: p.Name}, func(q *msr.Part) bool {
				return q == p
			})
			if err != nil {
				return nil, err
			}
		}
	}
	if cfg.Panic {
		output[OutputKey{Special: Panic}], err = panicMIDI(output[OutputKey{Special: All}])
		if err != nil {
			return nil, fmt.Errorf("could not build panic output: %w", err)
		}
	}

	return &Result{
		Score:       s,
		Output:      output,
		Diagnostics: l.Diagnostics(),
	}, nil
}
