package msr

import (
	"fmt"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Voice is a sequence of segments, each a sequence of measures. It carries
// the counters that measure classification reads and advances.
type Voice struct {
	id    VoiceID
	staff StaffID
	score *Score
	kind  VoiceKind

	Number int

	segments []SegmentID

	// measureCount is the ordinal number of the last measure created.
	measureCount int
	firstMeasure MeasureID

	currentTimeSignature *TimeSignature

	puristNumber        int
	sinceLastRegularEnd wholenotes.Duration
	repeatPhase         RepeatPhase

	// position is the voice offset of the next measure to be finalized.
	position  wholenotes.Position
	finalized bool
}

func (v *Voice) ID() VoiceID {
	return v.id
}

func (v *Voice) Kind() VoiceKind {
	return v.kind
}

func (v *Voice) Staff() *Staff {
	return v.score.Staff(v.staff)
}

func (v *Voice) Part() *Part {
	return v.Staff().Part()
}

func (v *Voice) Score() *Score {
	return v.score
}

// Name identifies the voice in diagnostics as part/staff/voice.
func (v *Voice) Name() string {
	st := v.Staff()
	name := fmt.Sprintf("%s/%d/%d", st.Part().Name, st.Number, v.Number)
	if v.kind != VoiceRegular {
		name += " " + v.kind.String()
	}
	return name
}

// AddSegment starts a new segment; later measures go there.
func (v *Voice) AddSegment() *Segment {
	s := v.score
	seg := &Segment{
		id:    SegmentID(len(s.segments) + 1),
		voice: v.id,
		score: s,
	}
	s.segments = append(s.segments, seg)
	v.segments = append(v.segments, seg.id)
	return seg
}

// CurrentSegment returns the last segment, creating one if there is none.
func (v *Voice) CurrentSegment() *Segment {
	if len(v.segments) == 0 {
		return v.AddSegment()
	}
	return v.score.Segment(v.segments[len(v.segments)-1])
}

// Segments returns the segments in order.
func (v *Voice) Segments() []*Segment {
	out := make([]*Segment, len(v.segments))
	for i, id := range v.segments {
		out[i] = v.score.Segment(id)
	}
	return out
}

// AppendMeasure creates a measure at the end of the current segment.
func (v *Voice) AppendMeasure(line int, number string) *Measure {
	return v.CurrentSegment().AppendMeasure(line, number)
}

// MeasureCount returns how many measures were created in the voice.
func (v *Voice) MeasureCount() int {
	return v.measureCount
}

// CurrentTimeSignature returns the last time signature appended, or nil.
func (v *Voice) CurrentTimeSignature() *TimeSignature {
	return v.currentTimeSignature
}

// PuristNumber returns the purist number the next measure will get.
func (v *Voice) PuristNumber() int {
	return v.puristNumber
}

// WholeNotesSinceLastRegularMeasureEnd returns the duration accumulated by
// incomplete measures since the voice was last on a measure boundary.
func (v *Voice) WholeNotesSinceLastRegularMeasureEnd() wholenotes.Duration {
	return v.sinceLastRegularEnd
}

func (v *Voice) RepeatPhase() RepeatPhase {
	return v.repeatPhase
}

// SetRepeatPhase is called by the producer when a repeat component ends.
func (v *Voice) SetRepeatPhase(p RepeatPhase) {
	v.repeatPhase = p
}

// Position returns the voice offset reached by the finalized measures.
func (v *Voice) Position() wholenotes.Position {
	return v.position
}

// Finalize finalizes all measures, segment by segment, in order. Each
// measure is classified under the repeat context it was built with.
func (v *Voice) Finalize(line int) error {
	if v.finalized {
		if v.score.ctx.Log.Strict() {
			return errors.Internalf(line, "Voice.Finalize", "voice %s finalized twice", v.Name())
		}
		return nil
	}
	v.score.ctx.Log.Tracef(diag.TraceMeasures, "Finalizing voice %s in %s.", v.Name(), v.score.ctx.Pass())
	v.score.ctx.Log.Indenter.Inc()
	defer v.score.ctx.Log.Indenter.Dec()
	for _, seg := range v.Segments() {
		for _, m := range seg.Measures() {
			var err error
			if m.cloneOf != nil && !m.finalized {
				err = m.FinalizeClone(line, m.cloneOf)
			} else {
				err = m.Finalize(line, m.repeatContext, "Voice.Finalize")
			}
			if err != nil {
				return err
			}
		}
	}
	v.finalized = true
	return nil
}
