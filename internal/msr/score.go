package msr

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	PartID    int
	StaffID   int
	VoiceID   int
	SegmentID int
	MeasureID int
)

// Score owns every part, staff, voice, segment and measure of a piece.
// Entities refer to each other by ID; the IDs are resolved here.
type Score struct {
	// ID identifies this score in traces.
	ID uuid.UUID

	Title string

	ctx *Context

	parts    []*Part
	staves   []*Staff
	voices   []*Voice
	segments []*Segment
	measures []*Measure

	numberOfMeasures int
}

// NewScore creates an empty score. The context is initialized if needed.
func NewScore(ctx *Context, title string) *Score {
	ctx.Initialize()
	return &Score{
		ID:    uuid.New(),
		Title: title,
		ctx:   ctx,
	}
}

// Context returns the conversion context of the score.
func (s *Score) Context() *Context {
	return s.ctx
}

// AddPart appends a part. name is the part's identifier in the input, like
// "P1".
func (s *Score) AddPart(name string) *Part {
	p := &Part{
		id:    PartID(len(s.parts) + 1),
		Name:  name,
		score: s,
	}
	s.parts = append(s.parts, p)
	return p
}

// Parts returns the parts in order.
func (s *Score) Parts() []*Part {
	return s.parts
}

func (s *Score) Part(id PartID) *Part {
	if id <= 0 || int(id) > len(s.parts) {
		return nil
	}
	return s.parts[id-1]
}

func (s *Score) Staff(id StaffID) *Staff {
	if id <= 0 || int(id) > len(s.staves) {
		return nil
	}
	return s.staves[id-1]
}

func (s *Score) Voice(id VoiceID) *Voice {
	if id <= 0 || int(id) > len(s.voices) {
		return nil
	}
	return s.voices[id-1]
}

func (s *Score) Segment(id SegmentID) *Segment {
	if id <= 0 || int(id) > len(s.segments) {
		return nil
	}
	return s.segments[id-1]
}

func (s *Score) Measure(id MeasureID) *Measure {
	if id <= 0 || int(id) > len(s.measures) {
		return nil
	}
	return s.measures[id-1]
}

// SetNumberOfMeasures overrides the measure count of the score, as announced
// by the producer.
func (s *Score) SetNumberOfMeasures(n int) {
	s.numberOfMeasures = n
}

// NumberOfMeasures returns the announced measure count, or else the largest
// number of measures in any regular voice.
func (s *Score) NumberOfMeasures() int {
	if s.numberOfMeasures > 0 {
		return s.numberOfMeasures
	}
	n := 0
	for _, v := range s.voices {
		if v.kind == VoiceRegular && v.measureCount > n {
			n = v.measureCount
		}
	}
	return n
}

// Finalize finalizes every voice. Regular voices go first, as they fill in
// the per-part measure durations the harmonies and figured bass voices are
// aligned to; dynamics voices go last.
func (s *Score) Finalize() error {
	order := []func(VoiceKind) bool{
		func(k VoiceKind) bool { return k == VoiceRegular },
		func(k VoiceKind) bool { return k == VoiceHarmonies || k == VoiceFiguredBass },
		func(k VoiceKind) bool { return k == VoiceDynamics },
	}
	for pass, want := range order {
		s.ctx.SetPass("%v finalize %d", s.ID, pass+1)
		for _, p := range s.parts {
			for _, v := range p.Voices() {
				if !want(v.kind) {
					continue
				}
				err := v.Finalize(0)
				if err != nil {
					return fmt.Errorf("could not finalize voice %v: %w", v.Name(), err)
				}
			}
		}
	}
	return nil
}

func (s *Score) newMeasure(line int, number string, segment SegmentID) *Measure {
	m := &Measure{
		id:             MeasureID(len(s.measures) + 1),
		segment:        segment,
		score:          s,
		line:           line,
		number:         number,
		debugNumber:    s.ctx.Sequence.Next(),
		musicallyEmpty: true,
		repeatContext:  RepeatContextNone,
	}
	s.measures = append(s.measures, m)
	return m
}
