package msr

import (
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Segment is a run of measures in a voice, e.g. a repeat ending.
type Segment struct {
	id    SegmentID
	voice VoiceID
	score *Score

	measures []MeasureID
}

func (seg *Segment) ID() SegmentID {
	return seg.id
}

func (seg *Segment) Voice() *Voice {
	return seg.score.Voice(seg.voice)
}

// Measures returns the measures in order.
func (seg *Segment) Measures() []*Measure {
	out := make([]*Measure, len(seg.measures))
	for i, id := range seg.measures {
		out[i] = seg.score.Measure(id)
	}
	return out
}

// AppendMeasure creates an empty measure at the end of the segment. Its
// capacity comes from the voice's current time signature; without one it is
// a whole note.
func (seg *Segment) AppendMeasure(line int, number string) *Measure {
	v := seg.Voice()
	m := seg.score.newMeasure(line, number, seg.id)
	v.measureCount++
	m.ordinal = v.measureCount
	if v.firstMeasure == 0 {
		v.firstMeasure = m.id
		m.firstInVoice = true
	}
	m.firstInSegment = len(seg.measures) == 0
	seg.measures = append(seg.measures, m.id)
	if v.currentTimeSignature != nil {
		m.setCapacityFrom(v.currentTimeSignature)
	} else {
		m.capacity = wholenotes.MustDuration(1, 1)
	}
	return m
}
