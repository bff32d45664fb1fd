package msr

import (
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

type measureDuration struct {
	d   wholenotes.Duration
	set bool
}

// Part is one instrument's staves. It keeps the authoritative duration of
// each measure, by ordinal number, as found by its regular voices.
type Part struct {
	id    PartID
	score *Score

	// Name is the part identifier in the input.
	Name string

	staves []StaffID

	measureWholeNotes []measureDuration
}

func (p *Part) ID() PartID {
	return p.id
}

func (p *Part) Score() *Score {
	return p.score
}

// AddStaff appends a staff with the given number.
func (p *Part) AddStaff(number int) *Staff {
	s := p.score
	st := &Staff{
		id:     StaffID(len(s.staves) + 1),
		part:   p.id,
		score:  s,
		Number: number,
	}
	s.staves = append(s.staves, st)
	p.staves = append(p.staves, st.id)
	return st
}

// Staves returns the staves in order.
func (p *Part) Staves() []*Staff {
	out := make([]*Staff, len(p.staves))
	for i, id := range p.staves {
		out[i] = p.score.Staff(id)
	}
	return out
}

// Voices returns the voices of all staves in order.
func (p *Part) Voices() []*Voice {
	var out []*Voice
	for _, st := range p.Staves() {
		out = append(out, st.Voices()...)
	}
	return out
}

// RegisterMeasureWholeNotes records the duration of the measure with the
// given ordinal number. The first registration wins; it returns whether this
// one was recorded.
func (p *Part) RegisterMeasureWholeNotes(ordinal int, d wholenotes.Duration) bool {
	if ordinal <= 0 {
		return false
	}
	for len(p.measureWholeNotes) < ordinal {
		p.measureWholeNotes = append(p.measureWholeNotes, measureDuration{})
	}
	if p.measureWholeNotes[ordinal-1].set {
		return false
	}
	p.measureWholeNotes[ordinal-1] = measureDuration{d: d, set: true}
	return true
}

// MeasureWholeNotes returns the registered duration of a measure.
func (p *Part) MeasureWholeNotes(ordinal int) (wholenotes.Duration, bool) {
	if ordinal <= 0 || ordinal > len(p.measureWholeNotes) {
		return wholenotes.Duration{}, false
	}
	md := p.measureWholeNotes[ordinal-1]
	return md.d, md.set
}
