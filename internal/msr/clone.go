package msr

import (
	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/errors"
)

// newClone appends a measure to seg carrying the identity and capacity of m.
func (m *Measure) newClone(seg *Segment, op, number string) (*Measure, error) {
	if seg == nil {
		return nil, errors.Internalf(m.line, op, "no segment to clone measure %s into", m.number)
	}
	c := seg.AppendMeasure(m.line, number)
	c.debugNumber = m.debugNumber
	c.puristNumber = m.puristNumber
	c.capacity = m.capacity
	c.nextNumber = m.nextNumber
	c.repeatContext = m.repeatContext
	c.kind = KindUnknown
	c.cloneOf = m
	m.log().Tracef(diag.TraceClones, "%s of measure %s into voice %s, ordinal %d.", op, m.number, seg.Voice().Name(), c.ordinal)
	return c, nil
}

// NewbornClone appends an empty measure to seg with the number, purist
// number and capacity of m. Its kind is left unknown until it is finalized.
func (m *Measure) NewbornClone(seg *Segment) (*Measure, error) {
	c, err := m.newClone(seg, "NewbornClone", m.number)
	if err != nil {
		return nil, err
	}
	c.cloneTimeSignature = seg.Voice().currentTimeSignature
	return c, nil
}

// CloneOf returns the measure m was cloned from, or nil.
func (m *Measure) CloneOf() *Measure {
	return m.cloneOf
}

// DeepClone appends a copy of m to seg. Notes, chords, tuplets, harmonies and
// figured basses are copied; other elements are shared with m.
func (m *Measure) DeepClone(seg *Segment) (*Measure, error) {
	c, err := m.newClone(seg, "DeepClone", m.number)
	if err != nil {
		return nil, err
	}
	v := seg.Voice()
	for _, e := range m.elements {
		if ts, ok := e.(*TimeSignature); ok {
			v.currentTimeSignature = ts
		}
		d, copied := cloneElement(e)
		if copied {
			c.stamp(d, e.Position())
			if n, ok := d.(*Note); ok {
				c.registerNote(n)
			}
		}
		c.elements = append(c.elements, d)
	}
	c.position = m.position
	c.kind = m.kind
	c.musicallyEmpty = m.musicallyEmpty
	c.fullMeasureRest = m.fullMeasureRest
	c.cloneTimeSignature = v.currentTimeSignature
	return c, nil
}

// CopyWithNotesOnly appends to seg a measure numbered number holding copies
// of the notes, chords and tuplets of m only.
func (m *Measure) CopyWithNotesOnly(seg *Segment, number string) (*Measure, error) {
	c, err := m.newClone(seg, "CopyWithNotesOnly", number)
	if err != nil {
		return nil, err
	}
	for _, e := range m.elements {
		switch e.(type) {
		case *Note, *Chord, *Tuplet:
		default:
			continue
		}
		d, _ := cloneElement(e)
		c.stamp(d, e.Position())
		if n, ok := d.(*Note); ok {
			c.registerNote(n)
		}
		c.elements = append(c.elements, d)
	}
	c.position = m.position
	c.kind = m.kind
	c.musicallyEmpty = m.musicallyEmpty
	c.cloneTimeSignature = seg.Voice().currentTimeSignature
	return c, nil
}
