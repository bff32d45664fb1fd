package msr

import (
	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// DetermineKind classifies the measure and assigns its purist number,
// updating the voice counters. It runs once per measure; a second call is
// reported and ignored, or fails in strict mode.
func (m *Measure) DetermineKind(line int, ctx RepeatContextKind) error {
	l := m.log()
	if m.kindDetermined {
		if l.Strict() {
			return errors.Internalf(line, "DetermineKind", "kind of measure %s determined twice", m.number)
		}
		l.Warn(line, diag.MsgKindDeterminedTwice, m.number)
		return nil
	}
	m.repeatContext = ctx

	v := m.Voice()
	phase := v.repeatPhase
	accumulated := v.sinceLastRegularEnd.Add(m.position.Offset())
	m.puristNumber = v.puristNumber

	regularEnd := func() {
		m.endRegular = EndRegularYes
		v.puristNumber++
		v.sinceLastRegularEnd = wholenotes.Duration{}
	}

	switch {
	case m.position.IsStart():
		m.kind = KindMusicallyEmpty
		regularEnd()
		if !m.capacity.IsUnbounded() && m.capacity.Sign() > 0 {
			if err := m.AppendElement(NewSkip(line, m.capacity)); err != nil {
				return err
			}
			m.musicallyEmpty = true
		}

	case m.capacity.IsUnbounded():
		m.kind = KindCadenza
		regularEnd()

	case m.position.Reaches(m.capacity) == 0:
		m.kind = KindRegular
		regularEnd()

	case m.position.Reaches(m.capacity) < 0:
		v.sinceLastRegularEnd = accumulated
		if m.firstInVoice {
			if m.score.NumberOfMeasures() > 1 {
				m.kind = KindAnacrusis
			} else {
				m.kind = KindIncompleteLastMeasure
			}
			m.endRegular = EndRegularYes
			m.puristNumber = 0
			break
		}
		if accumulated.Equal(m.capacity) {
			regularEnd()
		} else {
			m.endRegular = EndRegularNo
		}
		if ctx == RepeatContextUnknown {
			l.Warn(line, diag.MsgUnknownRepeatContext, m.number)
		}
		m.kind = incompleteKind[ctx]

	default:
		l.Warn(line, diag.MsgOverflowing, m.number, m.position, m.capacity)
		m.kind = KindOverflowing
		regularEnd()
	}

	if phase != RepeatPhaseNone {
		v.repeatPhase = RepeatPhaseNone
	}
	m.kindDetermined = true
	l.Tracef(diag.TraceMeasures, "Measure %s (ordinal %d, purist %d) in voice %s is %v at %v of %v.",
		m.number, m.ordinal, m.puristNumber, v.Name(), m.kind, m.position, m.capacity)
	return nil
}
