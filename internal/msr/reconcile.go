package msr

import (
	"slices"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// auxiliaryTarget returns the duration a harmonies or figured bass measure
// must span: what the regular voices of the part registered for this
// ordinal, else the capacity.
func (m *Measure) auxiliaryTarget() wholenotes.Duration {
	if d, found := m.Part().MeasureWholeNotes(m.ordinal); found {
		return d
	}
	if m.capacity.IsUnbounded() {
		return m.position.Offset()
	}
	return m.capacity
}

func (m *Measure) finalizeAuxiliary(line int, ctx RepeatContextKind) error {
	err := m.reconcile(line, m.auxiliaryTarget())
	if err != nil {
		return err
	}
	return m.DetermineKind(line, ctx)
}

// reconcile sorts the harmonies or figured basses of the measure by
// position, fills the gaps between them with skips, shortens overlapping
// ones and makes the last one end exactly at target.
func (m *Measure) reconcile(line int, target wholenotes.Duration) error {
	l := m.log()
	flag := diag.TraceHarmonies
	if m.Voice().kind == VoiceFiguredBass {
		flag = diag.TraceFiguredBass
	}
	l.Tracef(flag, "Reconciling measure %s of voice %s against %v.", m.number, m.Voice().Name(), target)

	slices.SortStableFunc(m.elements, func(a, b Element) int {
		return a.Position().Cmp(b.Position())
	})

	out := make([]Element, 0, len(m.elements)+2)
	pad := func(at wholenotes.Position, d wholenotes.Duration) {
		s := NewSkip(line, d)
		m.stamp(s, at)
		l.Tracef(flag, "Padding measure %s with %v at %v.", m.number, d, at)
		out = append(out, s)
	}

	var prev auxiliary
	var prevEnd wholenotes.Position
	for _, e := range m.elements {
		if n, ok := e.(*Note); ok && !n.IsSkip() {
			return errors.Internalf(n.Line, "reconcile", "%v found in measure %s of voice %s", n, m.number, m.Voice().Name())
		}
		a, ok := e.(auxiliary)
		if !ok {
			out = append(out, e)
			continue
		}
		pos := a.Position()
		if prev == nil {
			if !pos.IsStart() {
				pad(wholenotes.Start, pos.Offset())
			}
		} else {
			gap := pos.Sub(prevEnd)
			switch gap.Sign() {
			case +1:
				pad(prevEnd, gap)
			case -1:
				overlap := gap.Neg()
				shortened := prev.Sounding().Sub(overlap)
				if shortened.Sign() <= 0 {
					l.Warn(a.base().Line, diag.MsgOverlapKept, m.number, a.auxName(), pos)
				} else {
					prev.setDuration(shortened)
					l.Warn(a.base().Line, diag.MsgOverlapClamped, m.number, a.auxName(), pos, overlap, shortened)
				}
			}
		}
		out = append(out, a)
		prev = a
		prevEnd = pos.Add(a.Sounding())
	}

	end := wholenotes.Start.Add(target)
	switch {
	case prev == nil:
		if target.Sign() > 0 {
			pad(wholenotes.Start, target)
			out = moveFinalBarLineLast(out)
		}
	case prevEnd.Less(end):
		pad(prevEnd, end.Sub(prevEnd))
		out = moveFinalBarLineLast(out)
	case prevEnd.Greater(end):
		overflow := prevEnd.Sub(end)
		shortened := prev.Sounding().Sub(overflow)
		if shortened.Sign() <= 0 {
			l.Warn(prev.base().Line, diag.MsgOverflowKept, m.number, prev.auxName(), prev.Position())
		} else {
			prev.setDuration(shortened)
			l.Warn(prev.base().Line, diag.MsgOverflowClamped, m.number, prev.auxName(), prev.Position(), overflow, shortened)
		}
	}
	m.elements = out

	m.position = wholenotes.Start
	for _, e := range m.elements {
		if stop := e.Position().Add(e.Sounding()); stop.Greater(m.position) {
			m.position = stop
		}
	}
	m.musicallyEmpty = prev == nil
	return nil
}

// moveFinalBarLineLast moves a final barline followed only by padding back to
// the end of the list.
func moveFinalBarLineLast(out []Element) []Element {
	i := len(out) - 1
	for i >= 0 {
		if n, ok := out[i].(*Note); ok && n.Padding {
			i--
			continue
		}
		break
	}
	if i < 0 || i == len(out)-1 {
		return out
	}
	b, ok := out[i].(*BarLine)
	if !ok || !b.IsFinal() {
		return out
	}
	return append(slices.Delete(out, i, i+1), b)
}
