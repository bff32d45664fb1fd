// Package builder turns a score description into a score, making the same
// calls a MusicXML reader would make.
package builder

import (
	"gopkg.in/yaml.v3"

	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Score is the root of a score description.
type Score struct {
	Title string `yaml:"title"`

	// Measures announces the number of measures; 0 means count them.
	Measures int `yaml:"measures,omitempty"`

	Parts []Part `yaml:"parts"`
}

type Part struct {
	ID     string  `yaml:"id"`
	Staves []Staff `yaml:"staves"`
}

type Staff struct {
	Number int     `yaml:"number"`
	Voices []Voice `yaml:"voices"`
}

type Voice struct {
	Number   int           `yaml:"number"`
	Kind     msr.VoiceKind `yaml:"kind,omitempty"`
	Measures []Measure     `yaml:"measures"`
}

type Measure struct {
	Number string `yaml:"number"`

	// NewSegment starts a new segment with this measure, e.g. at a repeat
	// ending.
	NewSegment bool `yaml:"new_segment,omitempty"`

	// RepeatContext defaults to none.
	RepeatContext *msr.RepeatContextKind `yaml:"repeat_context,omitempty"`

	// Capacity overrides the capacity implied by the time signature.
	Capacity *wholenotes.Duration `yaml:"capacity,omitempty"`

	NextNumber string `yaml:"next_number,omitempty"`

	// Repeat copies the measure with this number from earlier in the voice,
	// like a measure repeat sign.
	Repeat *Repeat `yaml:"repeat,omitempty"`

	Elements []Element `yaml:"elements,omitempty"`

	Line int `yaml:"-"`
}

func (m *Measure) UnmarshalYAML(n *yaml.Node) error {
	type plain Measure
	err := n.Decode((*plain)(m))
	if err != nil {
		return err
	}
	m.Line = n.Line
	return nil
}

// RepeatMode selects how a repeated measure is copied.
type RepeatMode string

const (
	RepeatDeep      RepeatMode = "deep"
	RepeatNotesOnly RepeatMode = "notes-only"
	RepeatNewborn   RepeatMode = "newborn"
)

type Repeat struct {
	Of   string     `yaml:"of"`
	Mode RepeatMode `yaml:"mode,omitempty"`
}

// Element is one element of a measure. Exactly one of the fields is set.
type Element struct {
	Note    *Note    `yaml:"note,omitempty"`
	Rest    *Note    `yaml:"rest,omitempty"`
	Skip    *Note    `yaml:"skip,omitempty"`
	Chord   *Chord   `yaml:"chord,omitempty"`
	Tuplet  *Tuplet  `yaml:"tuplet,omitempty"`
	Clef    *Clef    `yaml:"clef,omitempty"`
	Key     *Key     `yaml:"key,omitempty"`
	Time    *Time    `yaml:"time,omitempty"`
	BarLine *BarLine `yaml:"barline,omitempty"`
	Harmony *Harmony `yaml:"harmony,omitempty"`
	Figured *Figured `yaml:"figured_bass,omitempty"`
	Tempo   *Tempo   `yaml:"tempo,omitempty"`

	Rehearsal   *string        `yaml:"rehearsal,omitempty"`
	Segno       bool           `yaml:"segno,omitempty"`
	Coda        bool           `yaml:"coda,omitempty"`
	Pedal       string         `yaml:"pedal,omitempty"`
	Damp        bool           `yaml:"damp,omitempty"`
	DampAll     bool           `yaml:"damp_all,omitempty"`
	LineBreak   bool           `yaml:"line_break,omitempty"`
	PageBreak   bool           `yaml:"page_break,omitempty"`
	StaffChange int            `yaml:"staff_change,omitempty"`
	BarCheck    string         `yaml:"bar_check,omitempty"`
	Transpose   *Transposition `yaml:"transpose,omitempty"`
	OctaveShift *OctaveShift   `yaml:"octave_shift,omitempty"`

	Line int `yaml:"-"`
}

func (e *Element) UnmarshalYAML(n *yaml.Node) error {
	type plain Element
	err := n.Decode((*plain)(e))
	if err != nil {
		return err
	}
	e.Line = n.Line
	return nil
}

// Note describes a note, rest or skip. The duration is either given
// directly or by type and dots.
type Note struct {
	Pitch     string               `yaml:"pitch,omitempty"`
	Unpitched bool                 `yaml:"unpitched,omitempty"`
	Type      wholenotes.Kind      `yaml:"type,omitempty"`
	Dots      int                  `yaml:"dots,omitempty"`
	Duration  *wholenotes.Duration `yaml:"duration,omitempty"`
	Velocity  uint8                `yaml:"velocity,omitempty"`

	// Tie is "start", "stop" or "both".
	Tie string `yaml:"tie,omitempty"`
}

type Chord struct {
	Pitches  []string             `yaml:"pitches"`
	Type     wholenotes.Kind      `yaml:"type,omitempty"`
	Dots     int                  `yaml:"dots,omitempty"`
	Duration *wholenotes.Duration `yaml:"duration,omitempty"`
	Velocity uint8                `yaml:"velocity,omitempty"`
}

// Tuplet members are notes, rests or chords with their sounding durations,
// or with a type that the tuplet ratio is applied to.
type Tuplet struct {
	Actual  int       `yaml:"actual"`
	Normal  int       `yaml:"normal"`
	Members []Element `yaml:"members"`
}

type Clef struct {
	Sign string `yaml:"sign"`
	Line int    `yaml:"line,omitempty"`
}

type Key struct {
	Fifths int    `yaml:"fifths"`
	Mode   string `yaml:"mode,omitempty"`
}

// Time is a time signature. Beats like "2+3" are additive; Items holds
// composite signatures like 3/4 + 2/8.
type Time struct {
	Symbol   msr.TimeSymbol `yaml:"symbol,omitempty"`
	Beats    string         `yaml:"beats,omitempty"`
	BeatType int            `yaml:"beat_type,omitempty"`
	Items    []TimeItem     `yaml:"items,omitempty"`
}

type TimeItem struct {
	Beats    string `yaml:"beats"`
	BeatType int    `yaml:"beat_type"`
}

type BarLine struct {
	Location string `yaml:"location,omitempty"`
	Style    string `yaml:"style,omitempty"`
	Repeat   string `yaml:"repeat,omitempty"`
}

// Harmony is a chord symbol placed at an explicit offset in its measure.
type Harmony struct {
	Root     string              `yaml:"root"`
	Kind     msr.HarmonyKind     `yaml:"kind,omitempty"`
	Bass     string              `yaml:"bass,omitempty"`
	Text     string              `yaml:"text,omitempty"`
	At       wholenotes.Position `yaml:"at,omitempty"`
	Duration wholenotes.Duration `yaml:"duration"`
}

// Figured is a figured bass; each figure is written like "#6" or "4+".
type Figured struct {
	Figures     []string            `yaml:"figures"`
	Parentheses bool                `yaml:"parentheses,omitempty"`
	At          wholenotes.Position `yaml:"at,omitempty"`
	Duration    wholenotes.Duration `yaml:"duration"`
}

type Tempo struct {
	Unit      wholenotes.Kind `yaml:"unit,omitempty"`
	Dots      int             `yaml:"dots,omitempty"`
	PerMinute int             `yaml:"per_minute"`
	Words     string          `yaml:"words,omitempty"`
}

type Transposition struct {
	Diatonic  int `yaml:"diatonic,omitempty"`
	Chromatic int `yaml:"chromatic"`
}

type OctaveShift struct {
	Type string `yaml:"type"`
	Size int    `yaml:"size,omitempty"`
}
