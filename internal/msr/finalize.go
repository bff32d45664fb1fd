package msr

import (
	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Finalize pads and classifies the measure according to the kind of its
// voice, then assigns voice positions to its elements. A second call is
// reported and ignored, or fails in strict mode.
func (m *Measure) Finalize(line int, ctx RepeatContextKind, context string) error {
	v := m.Voice()
	l := m.log()
	if m.finalized {
		if l.Strict() {
			return errors.Internalf(line, "Finalize", "measure %s in voice %s finalized twice, first by %s", m.number, v.Name(), m.finalizationContext)
		}
		l.Warn(line, diag.MsgFinalizedTwice, m.number, v.Name(), m.finalizationContext)
		return nil
	}
	l.Tracef(diag.TraceMeasures, "Finalizing measure %s in voice %s (%s).", m.number, v.Name(), context)

	var err error
	switch v.kind {
	case VoiceRegular:
		err = m.finalizeRegular(line, ctx, context)
	case VoiceHarmonies, VoiceFiguredBass:
		err = m.finalizeAuxiliary(line, ctx)
	case VoiceDynamics:
		err = m.DetermineKind(line, ctx)
	}
	if err != nil {
		return err
	}

	m.assignVoicePositions()
	m.finalized = true
	m.finalizationContext = context
	return nil
}

func (m *Measure) finalizeRegular(line int, ctx RepeatContextKind, context string) error {
	part := m.Part()
	if target, found := part.MeasureWholeNotes(m.ordinal); found {
		p, err := wholenotes.PositionOf(target.Rational())
		if err != nil {
			return err
		}
		err = m.PadUpToPositionAtTheEnd(line, p, context)
		if err != nil {
			return err
		}
	}

	err := m.DetermineKind(line, ctx)
	if err != nil {
		return err
	}
	// After classification, so that the skip filling an empty measure counts.
	part.RegisterMeasureWholeNotes(m.ordinal, m.position.Offset())

	if m.longestNote != nil && m.longestNote.Duration.Equal(m.capacity) {
		m.longestNote.occupiesFullMeasure = true
	}
	m.fullMeasureRest = m.isFullMeasureRest()
	return nil
}

// isFullMeasureRest reports whether the only sounding element is a rest
// spanning the whole capacity.
func (m *Measure) isFullMeasureRest() bool {
	var rest *Note
	for _, e := range m.elements {
		if e.Sounding().IsZero() {
			continue
		}
		n, ok := e.(*Note)
		if !ok || n.Kind != NoteRest || rest != nil {
			return false
		}
		rest = n
	}
	return rest != nil && rest.Duration.Equal(m.capacity)
}

func (m *Measure) assignVoicePositions() {
	v := m.Voice()
	var assign func(e Element)
	assign = func(e Element) {
		b := e.base()
		b.voicePosition = v.position.Add(b.position.Offset())
		switch e := e.(type) {
		case *Chord:
			for _, n := range e.Notes {
				assign(n)
			}
		case *Tuplet:
			for _, member := range e.Members {
				assign(member)
			}
		}
	}
	for _, e := range m.elements {
		if e.MeasureID() == m.id {
			assign(e)
		}
	}
	v.position = v.position.Add(m.position.Offset())
}

// FinalizeClone finalizes a measure created by one of the clone methods
// like any other measure of its voice, after taking its capacity from the
// time signature in effect where the clone was made. A kind differing from
// the one of the finalized original is reported.
func (m *Measure) FinalizeClone(line int, original *Measure) error {
	if m.finalized {
		return errors.Internalf(line, "FinalizeClone", "clone of measure %s already finalized by %s", m.number, m.finalizationContext)
	}
	if original == nil {
		return errors.Internalf(line, "FinalizeClone", "no original for clone of measure %s", m.number)
	}
	l := m.log()
	l.Tracef(diag.TraceClones, "Finalizing clone of measure %s in voice %s.", m.number, m.Voice().Name())

	if m.cloneTimeSignature != nil {
		m.setCapacityFrom(m.cloneTimeSignature)
	} else if m.capacity.IsZero() {
		m.capacity = wholenotes.MustDuration(1, 1)
	}

	err := m.Finalize(line, m.repeatContext, "FinalizeClone")
	if err != nil {
		return err
	}
	if original.kind != KindUnknown && m.kind != original.kind {
		l.Warn(line, diag.MsgCloneKindDiffers, m.number, m.kind, original.kind)
		if m.capacity.IsZero() {
			l.Warn(line, diag.MsgCloneZeroCapacity, m.number)
		}
	}
	return nil
}
