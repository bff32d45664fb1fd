package msr

import (
	"slices"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Measure is a measure of one voice. Elements are appended while the score
// is built; Finalize then classifies and pads it exactly once, after which it
// must not change.
type Measure struct {
	id      MeasureID
	segment SegmentID
	score   *Score
	line    int

	number       string
	nextNumber   string
	debugNumber  int
	ordinal      int
	puristNumber int

	capacity wholenotes.Duration
	position wholenotes.Position
	elements []Element

	kind            MeasureKind
	firstInVoice    bool
	firstInSegment  bool
	musicallyEmpty  bool
	fullMeasureRest bool
	endRegular      EndRegularKind
	repeatContext   RepeatContextKind

	finalized           bool
	kindDetermined      bool
	finalizationContext string

	longestNote  *Note
	shortestNote *Note

	// cloneOf and cloneTimeSignature are set on measures made by the clone
	// methods.
	cloneOf            *Measure
	cloneTimeSignature *TimeSignature
}

func (m *Measure) ID() MeasureID {
	return m.id
}

// Number is the measure number as written in the input. It need not be
// numeric.
func (m *Measure) Number() string {
	return m.number
}

// DebugNumber is unique among all measures of a conversion.
func (m *Measure) DebugNumber() int {
	return m.debugNumber
}

// Ordinal is the 1-based index of the measure in its voice.
func (m *Measure) Ordinal() int {
	return m.ordinal
}

// PuristNumber is the musical measure number: anacruses are 0 and the parts
// of a measure split by a repeat share one number.
func (m *Measure) PuristNumber() int {
	return m.puristNumber
}

func (m *Measure) NextNumber() string {
	return m.nextNumber
}

func (m *Measure) SetNextNumber(n string) {
	m.nextNumber = n
}

// FullMeasureWholeNotes returns the capacity of the measure.
func (m *Measure) FullMeasureWholeNotes() wholenotes.Duration {
	return m.capacity
}

// SetFullMeasureWholeNotes overrides the capacity.
func (m *Measure) SetFullMeasureWholeNotes(d wholenotes.Duration) {
	m.capacity = d
	m.cloneTimeSignature = nil
}

// CurrentPosition returns the position the next element will be appended at.
func (m *Measure) CurrentPosition() wholenotes.Position {
	return m.position
}

func (m *Measure) Kind() MeasureKind {
	return m.kind
}

func (m *Measure) EndRegular() EndRegularKind {
	return m.endRegular
}

func (m *Measure) RepeatContext() RepeatContextKind {
	return m.repeatContext
}

// SetRepeatContext records the repeat context the measure is built under.
// Voice.Finalize classifies the measure with it.
func (m *Measure) SetRepeatContext(k RepeatContextKind) {
	m.repeatContext = k
}

func (m *Measure) IsFirstInVoice() bool {
	return m.firstInVoice
}

func (m *Measure) IsFirstInSegment() bool {
	return m.firstInSegment
}

// IsMusicallyEmpty reports whether no element with a duration was appended.
func (m *Measure) IsMusicallyEmpty() bool {
	return m.musicallyEmpty
}

// IsFullMeasureRest reports whether the measure is a single rest.
func (m *Measure) IsFullMeasureRest() bool {
	return m.fullMeasureRest
}

func (m *Measure) IsFinalized() bool {
	return m.finalized
}

// FinalizationContext names the operation that finalized the measure.
func (m *Measure) FinalizationContext() string {
	return m.finalizationContext
}

func (m *Measure) LongestNote() *Note {
	return m.longestNote
}

func (m *Measure) ShortestNote() *Note {
	return m.shortestNote
}

// Len returns the number of elements.
func (m *Measure) Len() int {
	return len(m.elements)
}

// Element returns the i-th element in list order.
func (m *Measure) Element(i int) Element {
	return m.elements[i]
}

func (m *Measure) Segment() *Segment {
	return m.score.Segment(m.segment)
}

func (m *Measure) Voice() *Voice {
	return m.Segment().Voice()
}

func (m *Measure) Part() *Part {
	return m.Voice().Part()
}

func (m *Measure) Score() *Score {
	return m.score
}

func (m *Measure) log() *diag.Log {
	return m.score.ctx.Log
}

func (m *Measure) setCapacityFrom(ts *TimeSignature) {
	m.capacity = ts.WholeNotesPerMeasure()
	if ts.IsSenzaMisura() {
		m.kind = KindCadenza
	}
}

func (m *Measure) checkAppend(line int, op string, e Element) error {
	if e == nil {
		return errors.Internalf(line, op, "nil element appended to measure %s", m.number)
	}
	if m.finalized {
		return errors.Internalf(line, op, "measure %s was already finalized by %s", m.number, m.finalizationContext)
	}
	return nil
}

// stamp makes e belong to the measure at position p.
func (m *Measure) stamp(e Element, p wholenotes.Position) {
	b := e.base()
	b.measure = m.id
	b.position = p
	switch e := e.(type) {
	case *Chord:
		for _, n := range e.Notes {
			m.stamp(n, p)
		}
	case *Tuplet:
		for _, member := range e.Members {
			m.stamp(member, p)
			p = p.Add(member.Sounding())
		}
	}
}

func (m *Measure) registerNote(n *Note) {
	if n.IsSkip() {
		return
	}
	if m.longestNote == nil || n.Duration.Greater(m.longestNote.Duration) {
		m.longestNote = n
	}
	if m.shortestNote == nil || n.Duration.Less(m.shortestNote.Duration) {
		m.shortestNote = n
	}
}

func (m *Measure) advance(d wholenotes.Duration) {
	if d.IsZero() {
		return
	}
	m.position = m.position.Add(d)
	m.musicallyEmpty = false
}

// AppendElement appends e at the current position and advances the position
// by its sounding duration.
func (m *Measure) AppendElement(e Element) error {
	if err := m.checkAppend(0, "AppendElement", e); err != nil {
		return err
	}
	m.stamp(e, m.position)
	m.elements = append(m.elements, e)
	if n, ok := e.(*Note); ok {
		m.registerNote(n)
	}
	m.advance(e.Sounding())
	m.log().Tracef(diag.TracePositions, "Appended %v to measure %s at %v, now at %v.", e, m.number, e.Position(), m.position)
	return nil
}

// InsertElementBefore inserts e before the element at index, at the current
// position, and advances the position by its sounding duration.
func (m *Measure) InsertElementBefore(index int, e Element) error {
	if err := m.checkAppend(0, "InsertElementBefore", e); err != nil {
		return err
	}
	if index < 0 || index > len(m.elements) {
		return errors.Internalf(e.base().Line, "InsertElementBefore", "index %d out of range in measure %s with %d elements", index, m.number, len(m.elements))
	}
	m.stamp(e, m.position)
	m.elements = slices.Insert(m.elements, index, e)
	if n, ok := e.(*Note); ok {
		m.registerNote(n)
	}
	m.advance(e.Sounding())
	return nil
}

// AppendElementAtTheEnd appends e, but keeps a final barline last.
func (m *Measure) AppendElementAtTheEnd(e Element) error {
	if n := len(m.elements); n > 0 {
		if b, ok := m.elements[n-1].(*BarLine); ok && b.IsFinal() {
			return m.InsertElementBefore(n-1, e)
		}
	}
	return m.AppendElement(e)
}

// PadUpToPosition appends a skip reaching target. Nothing happens if the
// measure is already at or past target.
func (m *Measure) PadUpToPosition(line int, target wholenotes.Position) error {
	if !m.position.Less(target) {
		return nil
	}
	missing := target.Sub(m.position)
	m.log().Tracef(diag.TracePositions, "Padding measure %s from %v up to %v.", m.number, m.position, target)
	return m.AppendElement(NewSkip(line, missing))
}

// PadUpToPositionAtTheEnd is PadUpToPosition for closing a measure. The skip
// goes before a final barline, and being past target is reported.
func (m *Measure) PadUpToPositionAtTheEnd(line int, target wholenotes.Position, context string) error {
	switch m.position.Cmp(target) {
	case -1:
		missing := target.Sub(m.position)
		m.log().Tracef(diag.TracePositions, "Padding measure %s from %v up to %v at the end (%s).", m.number, m.position, target, context)
		return m.AppendElementAtTheEnd(NewSkip(line, missing))
	case +1:
		m.log().Warn(line, diag.MsgOvershoot, m.number, m.position, target, context)
	}
	return nil
}

func (m *Measure) AppendNote(n *Note) error {
	return m.AppendElement(n)
}

func (m *Measure) AppendChord(c *Chord) error {
	return m.AppendElement(c)
}

func (m *Measure) AppendTuplet(t *Tuplet) error {
	return m.AppendElement(t)
}

func (m *Measure) AppendClef(c *Clef) error {
	return m.AppendElement(c)
}

func (m *Measure) AppendKey(k *Key) error {
	return m.AppendElement(k)
}

// AppendTimeSignature appends ts and makes it the capacity of this measure
// and the current time signature of the voice.
func (m *Measure) AppendTimeSignature(ts *TimeSignature) error {
	if ts == nil {
		return m.checkAppend(0, "AppendTimeSignature", nil)
	}
	if err := ts.Validate(); err != nil {
		return err
	}
	if err := m.AppendElement(ts); err != nil {
		return err
	}
	m.setCapacityFrom(ts)
	m.Voice().currentTimeSignature = ts
	if m.cloneOf != nil {
		m.cloneTimeSignature = ts
	}
	return nil
}

func (m *Measure) AppendBarLine(b *BarLine) error {
	return m.AppendElement(b)
}

// AppendHarmony places h at an explicit position. Harmonies may come out of
// order; Finalize sorts and aligns them.
func (m *Measure) AppendHarmony(h *Harmony, at wholenotes.Position) error {
	if h == nil {
		return m.checkAppend(0, "AppendHarmony", nil)
	}
	return m.appendAuxiliary(h, at)
}

// AppendFiguredBass places f at an explicit position, like AppendHarmony.
func (m *Measure) AppendFiguredBass(f *FiguredBass, at wholenotes.Position) error {
	if f == nil {
		return m.checkAppend(0, "AppendFiguredBass", nil)
	}
	return m.appendAuxiliary(f, at)
}

func (m *Measure) appendAuxiliary(a auxiliary, at wholenotes.Position) error {
	if err := m.checkAppend(a.base().Line, "append "+a.auxName(), a); err != nil {
		return err
	}
	if a.Sounding().Sign() < 0 {
		return &errors.ValidationError{Type: "Element", Field: "Duration", Reason: a.auxName() + " duration must not be negative", Value: a.Sounding()}
	}
	m.stamp(a, at)
	m.elements = append(m.elements, a)
	if end := at.Add(a.Sounding()); end.Greater(m.position) {
		m.position = end
	}
	if !a.Sounding().IsZero() {
		m.musicallyEmpty = false
	}
	return nil
}

// AppendOther appends any other element, e.g. a rehearsal mark.
func (m *Measure) AppendOther(e Element) error {
	return m.AppendElement(e)
}
