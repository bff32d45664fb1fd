package msr

import (
	"fmt"
	"strings"

	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Element is anything a measure can contain. The set of implementations is
// closed; consumers switch on the concrete type.
type Element interface {
	fmt.Stringer

	// Sounding returns how far the element advances the measure position.
	Sounding() wholenotes.Duration

	// Position returns where the element starts in its measure.
	Position() wholenotes.Position

	// VoicePosition returns where the element starts in its voice. It is
	// only valid after the measure has been finalized.
	VoicePosition() wholenotes.Position

	// MeasureID returns the measure the element was appended to.
	MeasureID() MeasureID

	base() *ElementBase
}

// ElementBase carries what all elements share.
type ElementBase struct {
	// Line is the input line the element comes from.
	Line int

	measure       MeasureID
	position      wholenotes.Position
	voicePosition wholenotes.Position
}

func (b *ElementBase) base() *ElementBase {
	return b
}

func (b *ElementBase) Sounding() wholenotes.Duration {
	return wholenotes.Duration{}
}

func (b *ElementBase) Position() wholenotes.Position {
	return b.position
}

func (b *ElementBase) VoicePosition() wholenotes.Position {
	return b.voicePosition
}

func (b *ElementBase) MeasureID() MeasureID {
	return b.measure
}

// Pitch is a spelled pitch. Octave 4 contains middle C.
type Pitch struct {
	Step   string
	Alter  int
	Octave int
}

var stepSemitones = map[string]int{
	"C": 0,
	"D": 2,
	"E": 4,
	"F": 5,
	"G": 7,
	"A": 9,
	"B": 11,
}

// ParseStep validates a step name.
func ParseStep(s string) (string, error) {
	if _, found := stepSemitones[s]; !found {
		return "", &errors.ParseError{Type: "Step", Value: s}
	}
	return s, nil
}

// Semitone returns the pitch class, 0 for C through 11 for B.
func (p Pitch) Semitone() int {
	return ((stepSemitones[p.Step]+p.Alter)%12 + 12) % 12
}

// MIDIKey returns the MIDI note number; middle C (C4) is 60.
func (p Pitch) MIDIKey() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

func accidental(alter int) string {
	if alter < 0 {
		return strings.Repeat("b", -alter)
	}
	return strings.Repeat("#", alter)
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%s%d", p.Step, accidental(p.Alter), p.Octave)
}

// NoteKind distinguishes sounding notes from rests and skips.
type NoteKind int

const (
	NoteRegular NoteKind = iota
	NoteRest
	NoteSkip
	NoteUnpitched
)

var noteKindNames = []string{
	NoteRegular:   "note",
	NoteRest:      "rest",
	NoteSkip:      "skip",
	NoteUnpitched: "unpitched",
}

func (k NoteKind) String() string {
	return enumString(noteKindNames, k)
}

func ParseNoteKind(s string) (NoteKind, error) {
	return parseEnum[NoteKind]("NoteKind", noteKindNames, s)
}

// Note is a note, rest or skip.
type Note struct {
	ElementBase

	Kind  NoteKind
	Pitch Pitch

	// Duration is the sounding duration, tuplet factors applied.
	Duration wholenotes.Duration

	// Display is the graphic duration.
	Display wholenotes.Kind
	Dots    int

	// Velocity is the MIDI velocity; 0 means the default.
	Velocity uint8

	TieStart, TieStop bool

	// Padding marks skips synthesized to fill gaps.
	Padding bool

	occupiesFullMeasure bool
}

// NewSkip returns a padding skip note of the given duration.
func NewSkip(line int, d wholenotes.Duration) *Note {
	n := &Note{
		ElementBase: ElementBase{Line: line},
		Kind:        NoteSkip,
		Duration:    d,
		Padding:     true,
	}
	n.Display, n.Dots, _ = wholenotes.KindFromDuration(d)
	return n
}

func (n *Note) Sounding() wholenotes.Duration {
	return n.Duration
}

// OccupiesFullMeasure reports whether the note alone fills its measure.
func (n *Note) OccupiesFullMeasure() bool {
	return n.occupiesFullMeasure
}

// IsSkip reports whether the note is a skip.
func (n *Note) IsSkip() bool {
	return n.Kind == NoteSkip
}

func (n *Note) String() string {
	switch n.Kind {
	case NoteRegular:
		return fmt.Sprintf("note %v %v", n.Pitch, n.Duration)
	case NoteUnpitched:
		return fmt.Sprintf("unpitched %v", n.Duration)
	case NoteSkip:
		if n.Padding {
			return fmt.Sprintf("padding skip %v", n.Duration)
		}
	}
	return fmt.Sprintf("%v %v", n.Kind, n.Duration)
}

func (n *Note) clone() *Note {
	c := *n
	return &c
}

// Chord is a set of notes starting and ending together.
type Chord struct {
	ElementBase

	Notes    []*Note
	Duration wholenotes.Duration
}

func (c *Chord) Sounding() wholenotes.Duration {
	return c.Duration
}

func (c *Chord) String() string {
	pitches := make([]string, len(c.Notes))
	for i, n := range c.Notes {
		pitches[i] = n.Pitch.String()
	}
	return fmt.Sprintf("chord <%s> %v", strings.Join(pitches, " "), c.Duration)
}

func (c *Chord) clone() *Chord {
	d := *c
	d.Notes = make([]*Note, len(c.Notes))
	for i, n := range c.Notes {
		d.Notes[i] = n.clone()
	}
	return &d
}

// Tuplet groups notes and chords played Actual in the time of Normal. The
// member durations already include the tuplet factor.
type Tuplet struct {
	ElementBase

	Actual, Normal int
	Members        []Element
}

func (t *Tuplet) Sounding() wholenotes.Duration {
	var d wholenotes.Duration
	for _, m := range t.Members {
		d = d.Add(m.Sounding())
	}
	return d
}

func (t *Tuplet) String() string {
	return fmt.Sprintf("tuplet %d:%d %v", t.Actual, t.Normal, t.Sounding())
}

func (t *Tuplet) clone() *Tuplet {
	u := *t
	u.Members = make([]Element, len(t.Members))
	for i, m := range t.Members {
		switch m := m.(type) {
		case *Note:
			u.Members[i] = m.clone()
		case *Chord:
			u.Members[i] = m.clone()
		default:
			u.Members[i] = m
		}
	}
	return &u
}

type Clef struct {
	ElementBase

	Sign string
	Line int
}

func (c *Clef) String() string {
	return fmt.Sprintf("clef %s%d", c.Sign, c.Line)
}

type Key struct {
	ElementBase

	Fifths int
	Mode   string
}

func (k *Key) String() string {
	return fmt.Sprintf("key %d %s", k.Fifths, k.Mode)
}

// TimeSymbol is the graphic form of a time signature.
type TimeSymbol int

const (
	TimeSymbolNone TimeSymbol = iota
	TimeSymbolCommon
	TimeSymbolCut
	TimeSymbolSingleNumber
	TimeSymbolSenzaMisura
)

var timeSymbolNames = []string{
	TimeSymbolNone:         "none",
	TimeSymbolCommon:       "common",
	TimeSymbolCut:          "cut",
	TimeSymbolSingleNumber: "single-number",
	TimeSymbolSenzaMisura:  "senza-misura",
}

func (s TimeSymbol) String() string {
	return enumString(timeSymbolNames, s)
}

func ParseTimeSymbol(s string) (TimeSymbol, error) {
	return parseEnum[TimeSymbol]("TimeSymbol", timeSymbolNames, s)
}

func (s TimeSymbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *TimeSymbol) UnmarshalText(text []byte) error {
	v, err := ParseTimeSymbol(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// TimeItem is one additive part of a time signature, like 2+3/8.
type TimeItem struct {
	Beats    []int
	BeatType int
}

// TimeSignature elements are immutable once appended and may be shared
// between measures.
type TimeSignature struct {
	ElementBase

	Symbol TimeSymbol
	Items  []TimeItem
}

// NewTimeSignature returns a simple num/denom time signature.
func NewTimeSignature(line, beats, beatType int) *TimeSignature {
	return &TimeSignature{
		ElementBase: ElementBase{Line: line},
		Items:       []TimeItem{{Beats: []int{beats}, BeatType: beatType}},
	}
}

func (t *TimeSignature) Validate() error {
	if t.Symbol == TimeSymbolSenzaMisura {
		return nil
	}
	if len(t.Items) == 0 {
		return &errors.ValidationError{Type: "TimeSignature", Field: "Items", Reason: "must not be empty"}
	}
	for _, item := range t.Items {
		if item.BeatType <= 0 {
			return &errors.ValidationError{Type: "TimeSignature", Field: "BeatType", Reason: "must be positive", Value: item.BeatType}
		}
		if len(item.Beats) == 0 {
			return &errors.ValidationError{Type: "TimeSignature", Field: "Beats", Reason: "must not be empty"}
		}
		for _, b := range item.Beats {
			if b <= 0 {
				return &errors.ValidationError{Type: "TimeSignature", Field: "Beats", Reason: "must be positive", Value: b}
			}
		}
	}
	return nil
}

// IsSenzaMisura reports whether measures under t are unbounded.
func (t *TimeSignature) IsSenzaMisura() bool {
	return t.Symbol == TimeSymbolSenzaMisura
}

// WholeNotesPerMeasure returns the measure capacity under t. 3/4 is 3/4 and
// 2+3/8 is 5/8; senza misura is Unbounded.
func (t *TimeSignature) WholeNotesPerMeasure() wholenotes.Duration {
	if t.IsSenzaMisura() {
		return wholenotes.Unbounded
	}
	var d wholenotes.Duration
	for _, item := range t.Items {
		beats := 0
		for _, b := range item.Beats {
			beats += b
		}
		d = d.Add(wholenotes.MustDuration(int64(beats), int64(item.BeatType)))
	}
	return d
}

func (t *TimeSignature) String() string {
	if t.IsSenzaMisura() {
		return "time senza-misura"
	}
	parts := make([]string, len(t.Items))
	for i, item := range t.Items {
		beats := make([]string, len(item.Beats))
		for j, b := range item.Beats {
			beats[j] = fmt.Sprint(b)
		}
		parts[i] = fmt.Sprintf("%s/%d", strings.Join(beats, "+"), item.BeatType)
	}
	return "time " + strings.Join(parts, " ")
}

type BarLine struct {
	ElementBase

	// Location is "left", "middle" or "right".
	Location string

	// Style is the MusicXML bar-style, e.g. "regular" or "light-heavy".
	Style string

	// Repeat is "forward", "backward" or empty.
	Repeat string
}

// IsFinal reports whether this is a final barline, which stays last in its
// measure.
func (b *BarLine) IsFinal() bool {
	return b.Style == "light-heavy"
}

func (b *BarLine) String() string {
	s := "barline " + b.Style
	if b.Repeat != "" {
		s += " repeat " + b.Repeat
	}
	return s
}

// HarmonyKind is a chord quality, named like MusicXML <kind>.
type HarmonyKind string

const (
	HarmonyMajor        HarmonyKind = "major"
	HarmonyMinor        HarmonyKind = "minor"
	HarmonyDominant     HarmonyKind = "dominant"
	HarmonyMajorSeventh HarmonyKind = "major-seventh"
	HarmonyMinorSeventh HarmonyKind = "minor-seventh"
	HarmonyDiminished   HarmonyKind = "diminished"
	HarmonyAugmented    HarmonyKind = "augmented"
	HarmonySusFourth    HarmonyKind = "suspended-fourth"
	HarmonyNone         HarmonyKind = "none"
)

var harmonyIntervals = map[HarmonyKind][]int{
	HarmonyMajor:        {0, 4, 7},
	HarmonyMinor:        {0, 3, 7},
	HarmonyDominant:     {0, 4, 7, 10},
	HarmonyMajorSeventh: {0, 4, 7, 11},
	HarmonyMinorSeventh: {0, 3, 7, 10},
	HarmonyDiminished:   {0, 3, 6},
	HarmonyAugmented:    {0, 4, 8},
	HarmonySusFourth:    {0, 5, 7},
	HarmonyNone:         {},
}

// Intervals returns the semitones above the root. ok is false for kinds
// without a known voicing.
func (k HarmonyKind) Intervals() ([]int, bool) {
	iv, ok := harmonyIntervals[k]
	return iv, ok
}

// Harmony is a chord symbol. It lives in a harmonies voice.
type Harmony struct {
	ElementBase

	Root Pitch
	Kind HarmonyKind
	Bass *Pitch
	Text string

	Duration wholenotes.Duration
}

func (h *Harmony) Sounding() wholenotes.Duration {
	return h.Duration
}

func (h *Harmony) String() string {
	s := fmt.Sprintf("harmony %s%s %s", h.Root.Step, accidental(h.Root.Alter), h.Kind)
	if h.Bass != nil {
		s += "/" + h.Bass.Step + accidental(h.Bass.Alter)
	}
	return fmt.Sprintf("%s %v", s, h.Duration)
}

func (h *Harmony) auxName() string {
	return "harmony"
}

func (h *Harmony) setDuration(d wholenotes.Duration) {
	h.Duration = d
}

// Figure is one line of a figured bass.
type Figure struct {
	Prefix string
	Number int
	Suffix string
}

func (f Figure) String() string {
	if f.Number == 0 {
		return f.Prefix + f.Suffix
	}
	return fmt.Sprintf("%s%d%s", f.Prefix, f.Number, f.Suffix)
}

// FiguredBass lives in a figured bass voice.
type FiguredBass struct {
	ElementBase

	Figures     []Figure
	Parentheses bool

	Duration wholenotes.Duration
}

func (f *FiguredBass) Sounding() wholenotes.Duration {
	return f.Duration
}

// Figures returns the figures as text, top to bottom.
func (f *FiguredBass) Text() string {
	figs := make([]string, len(f.Figures))
	for i, fig := range f.Figures {
		figs[i] = fig.String()
	}
	s := strings.Join(figs, " ")
	if f.Parentheses {
		s = "(" + s + ")"
	}
	return s
}

func (f *FiguredBass) String() string {
	return fmt.Sprintf("figured-bass %q %v", f.Text(), f.Duration)
}

func (f *FiguredBass) auxName() string {
	return "figured bass"
}

func (f *FiguredBass) setDuration(d wholenotes.Duration) {
	f.Duration = d
}

type LineBreak struct {
	ElementBase

	NextBarNumber string
}

func (b *LineBreak) String() string {
	return "line-break"
}

type PageBreak struct {
	ElementBase
}

func (b *PageBreak) String() string {
	return "page-break"
}

type RehearsalMark struct {
	ElementBase

	Text string
}

func (r *RehearsalMark) String() string {
	return fmt.Sprintf("rehearsal-mark %q", r.Text)
}

// Tempo is a metronome mark: PerMinute beats of Unit (with Dots) per minute.
type Tempo struct {
	ElementBase

	Unit      wholenotes.Kind
	Dots      int
	PerMinute int
	Words     string
}

// QuarterBPM converts the mark to quarter notes per minute.
func (t *Tempo) QuarterBPM() float64 {
	unit := wholenotes.Dotted(t.Unit, t.Dots)
	return float64(t.PerMinute) * unit.Rational().Float64() * 4
}

func (t *Tempo) String() string {
	return fmt.Sprintf("tempo %v=%d %q", t.Unit, t.PerMinute, t.Words)
}

type Segno struct {
	ElementBase
}

func (s *Segno) String() string {
	return "segno"
}

type Coda struct {
	ElementBase
}

func (c *Coda) String() string {
	return "coda"
}

type Pedal struct {
	ElementBase

	// Type is "start", "stop" or "change".
	Type string
}

func (p *Pedal) String() string {
	return "pedal " + p.Type
}

type Damp struct {
	ElementBase
}

func (d *Damp) String() string {
	return "damp"
}

type DampAll struct {
	ElementBase
}

func (d *DampAll) String() string {
	return "damp-all"
}

// VoiceStaffChange moves the following notes to another staff.
type VoiceStaffChange struct {
	ElementBase

	Staff int
}

func (c *VoiceStaffChange) String() string {
	return fmt.Sprintf("staff-change %d", c.Staff)
}

type BarCheck struct {
	ElementBase

	NextNumber string
}

func (c *BarCheck) String() string {
	return "bar-check " + c.NextNumber
}

type Transposition struct {
	ElementBase

	Diatonic, Chromatic int
}

func (t *Transposition) String() string {
	return fmt.Sprintf("transpose %d %d", t.Diatonic, t.Chromatic)
}

type OctaveShift struct {
	ElementBase

	// Type is "up", "down" or "stop".
	Type string
	Size int
}

func (s *OctaveShift) String() string {
	return fmt.Sprintf("octave-shift %s %d", s.Type, s.Size)
}

// auxiliary is implemented by the elements of harmonies and figured bass
// voices.
type auxiliary interface {
	Element
	auxName() string
	setDuration(d wholenotes.Duration)
}

// cloneElement returns an independent copy of sounding elements. Other
// elements are immutable once appended and are shared.
func cloneElement(e Element) (Element, bool) {
	switch e := e.(type) {
	case *Note:
		return e.clone(), true
	case *Chord:
		return e.clone(), true
	case *Tuplet:
		return e.clone(), true
	case *Harmony:
		c := *e
		return &c, true
	case *FiguredBass:
		c := *e
		return &c, true
	}
	return e, false
}
