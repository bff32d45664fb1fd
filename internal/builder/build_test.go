package builder_test

import (
	stderrors "errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/divVerent/msrconverser/internal/builder"
	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

const song = `title: Test
parts:
- id: P1
  staves:
  - number: 1
    voices:
    - number: 1
      measures:
      - number: "0"
        elements:
        - clef: {sign: G, line: 2}
        - time: {beats: "4", beat_type: 4}
        - note: {pitch: G4, type: quarter}
      - number: "1"
        elements:
        - note: {pitch: C5, type: half, dots: 1}
        - rest: {type: quarter}
      - number: "2"
        repeat: {of: "1"}
      - number: "3"
        elements:
        - tuplet:
            actual: 3
            normal: 2
            members:
            - note: {pitch: C4, type: eighth}
            - note: {pitch: D4, type: eighth}
            - note: {pitch: E4, type: eighth}
        - chord: {pitches: [C4, E4, G4], type: half, dots: 1}
        - barline: {location: right, style: light-heavy}
    - number: 2
      kind: harmonies
      measures:
      - number: "0"
      - number: "1"
        elements:
        - harmony: {root: G, kind: dominant, at: 1/4, duration: 1/2}
      - number: "2"
      - number: "3"
        elements:
        - harmony: {root: C, duration: 1/1}
`

func decode(t *testing.T, s string) *builder.Score {
	t.Helper()
	var desc builder.Score
	require.NoError(t, yaml.Unmarshal([]byte(s), &desc))
	return &desc
}

func build(t *testing.T, s string) (*msr.Score, *diag.Log, error) {
	t.Helper()
	l := diag.New(diag.Options{Language: "en", Sink: func(diag.Diagnostic) {}})
	score, err := builder.Build(msr.NewContext(l), decode(t, s))
	return score, l, err
}

func kinds(v *msr.Voice) []msr.MeasureKind {
	var out []msr.MeasureKind
	for m := range v.Measures() {
		out = append(out, m.Kind())
	}
	return out
}

func TestBuild(t *testing.T) {
	s, l, err := build(t, song)
	require.NoError(t, err)
	require.NoError(t, s.Finalize())
	assert.Equal(t, "Test", s.Title)

	voices := s.Parts()[0].Voices()
	require.Len(t, voices, 2)
	regular, harmonies := voices[0], voices[1]
	assert.Equal(t, msr.VoiceHarmonies, harmonies.Kind())

	assert.Equal(t, []msr.MeasureKind{
		msr.KindAnacrusis,
		msr.KindRegular,
		msr.KindRegular,
		msr.KindRegular,
	}, kinds(regular))
	assert.Equal(t, 4, s.NumberOfMeasures())
	assert.True(t, regular.Position().Equal(wholenotes.MustPosition(13, 4)))

	ms := slices.Collect(harmonies.Measures())
	require.Len(t, ms, 4)
	assert.Equal(t, msr.KindAnacrusis, ms[0].Kind())
	assert.True(t, ms[0].CurrentPosition().Equal(wholenotes.MustPosition(1, 4)))

	// Skip, harmony, skip.
	m1 := ms[1]
	require.Equal(t, 3, m1.Len())
	h, ok := m1.Element(1).(*msr.Harmony)
	require.True(t, ok)
	assert.Equal(t, msr.HarmonyDominant, h.Kind)
	assert.True(t, h.Position().Equal(wholenotes.MustPosition(1, 4)))
	assert.True(t, h.VoicePosition().Equal(wholenotes.MustPosition(1, 2)))
	assert.True(t, m1.Element(2).(*msr.Note).IsSkip())
	assert.True(t, m1.Element(2).Sounding().Equal(wholenotes.MustDuration(1, 4)))

	last := ms[3].Element(0).(*msr.Harmony)
	assert.Equal(t, msr.HarmonyMajor, last.Kind)
	assert.Equal(t, 0, l.Count(diag.MsgOverflowing))
}

func TestBuildTupletsAndChords(t *testing.T) {
	s, _, err := build(t, song)
	require.NoError(t, err)
	require.NoError(t, s.Finalize())

	m := slices.Collect(s.Parts()[0].Voices()[0].Measures())[3]
	tuplet, ok := m.Element(0).(*msr.Tuplet)
	require.True(t, ok)
	require.Len(t, tuplet.Members, 3)
	for i, member := range tuplet.Members {
		assert.True(t, member.Sounding().Equal(wholenotes.MustDuration(1, 12)))
		assert.True(t, member.Position().Equal(wholenotes.MustPosition(int64(i), 12)))
	}
	assert.True(t, tuplet.Sounding().Equal(wholenotes.MustDuration(1, 4)))

	chord := m.Element(1).(*msr.Chord)
	assert.Len(t, chord.Notes, 3)
	assert.True(t, chord.Position().Equal(wholenotes.MustPosition(1, 4)))
	assert.Equal(t, 64, chord.Notes[1].Pitch.MIDIKey())

	bar := m.Element(m.Len() - 1).(*msr.BarLine)
	assert.True(t, bar.IsFinal())
}

func TestBuildRepeat(t *testing.T) {
	s, _, err := build(t, song)
	require.NoError(t, err)
	require.NoError(t, s.Finalize())

	ms := slices.Collect(s.Parts()[0].Voices()[0].Measures())
	orig, clone := ms[1], ms[2]
	assert.Equal(t, orig.Number(), clone.Number())
	require.Equal(t, orig.Len(), clone.Len())
	assert.NotSame(t, orig.Element(0), clone.Element(0))
	assert.Equal(t, 1, orig.PuristNumber())
	assert.Equal(t, 2, clone.PuristNumber())
	assert.Same(t, orig, clone.CloneOf())
	assert.Equal(t, "FinalizeClone", clone.FinalizationContext())
}

func TestBuildRepeatKeepsTimeSignature(t *testing.T) {
	s, l, err := build(t, `parts:
- id: P1
  staves:
  - number: 1
    voices:
    - number: 1
      measures:
      - number: "1"
        elements:
        - time: {beats: "3", beat_type: 4}
        - note: {pitch: C4, type: half, dots: 1}
      - number: "2"
        repeat: {of: "1", mode: notes-only}
      - number: "3"
        elements:
        - time: {beats: "4", beat_type: 4}
        - note: {pitch: C4, type: whole}
`)
	require.NoError(t, err)
	require.NoError(t, s.Finalize())
	ms := slices.Collect(s.Parts()[0].Voices()[0].Measures())
	require.Len(t, ms, 3)
	assert.True(t, ms[1].FullMeasureWholeNotes().Equal(wholenotes.MustDuration(3, 4)))
	assert.Equal(t, msr.KindRegular, ms[1].Kind())
	assert.Equal(t, msr.KindRegular, ms[2].Kind())
	assert.Equal(t, 0, l.Count(diag.MsgCloneKindDiffers))
	assert.Equal(t, 0, l.Count(diag.MsgOvershoot))
}

func TestBuildTime(t *testing.T) {
	for _, tc := range []struct {
		time string
		want wholenotes.Duration
	}{
		{`{symbol: common}`, wholenotes.MustDuration(1, 1)},
		{`{symbol: cut}`, wholenotes.MustDuration(1, 1)},
		{`{beats: "3", beat_type: 4}`, wholenotes.MustDuration(3, 4)},
		{`{beats: "2+3", beat_type: 8}`, wholenotes.MustDuration(5, 8)},
		{`{items: [{beats: "3", beat_type: 4}, {beats: "2", beat_type: 8}]}`, wholenotes.MustDuration(1, 1)},
		{`{symbol: senza-misura}`, wholenotes.Unbounded},
	} {
		t.Run(tc.time, func(t *testing.T) {
			s, _, err := build(t, `parts:
- id: P1
  staves:
  - number: 1
    voices:
    - number: 1
      measures:
      - number: "1"
        elements:
        - time: `+tc.time+`
`)
			require.NoError(t, err)
			m := slices.Collect(s.Parts()[0].Voices()[0].Measures())[0]
			assert.True(t, m.FullMeasureWholeNotes().Equal(tc.want), "got %v", m.FullMeasureWholeNotes())
		})
	}
}

func TestBuildErrors(t *testing.T) {
	measure := func(elements string) string {
		return `parts:
- id: P1
  staves:
  - number: 1
    voices:
    - number: 1
      measures:
      - number: "1"
        elements:
` + elements
	}

	_, _, err := build(t, measure("        - note: {pitch: H4, type: quarter}\n"))
	var parseErr *errors.ParseError
	require.True(t, stderrors.As(err, &parseErr), "got %v", err)
	assert.Equal(t, "Pitch", parseErr.Type)
	assert.Contains(t, err.Error(), "line 10")

	_, _, err = build(t, measure("        - note: {pitch: C4}\n"))
	var validationErr *errors.ValidationError
	require.True(t, stderrors.As(err, &validationErr), "got %v", err)
	assert.Equal(t, "duration", validationErr.Field)

	_, _, err = build(t, measure("        - note: {pitch: C4, type: quarter, tie: sideways}\n"))
	require.True(t, stderrors.As(err, &parseErr), "got %v", err)
	assert.Equal(t, "Tie", parseErr.Type)

	_, _, err = build(t, measure("        - {}\n"))
	require.True(t, stderrors.As(err, &validationErr), "got %v", err)
	assert.Equal(t, "Element", validationErr.Type)

	_, _, err = build(t, measure("        - time: {beats: \"0\", beat_type: 4}\n"))
	require.True(t, stderrors.As(err, &validationErr), "got %v", err)

	_, _, err = build(t, `parts:
- id: P1
  staves:
  - number: 1
    voices:
    - number: 1
      measures:
      - number: "1"
        repeat: {of: "7"}
`)
	assert.ErrorContains(t, err, `unknown measure "7"`)

	_, _, err = build(t, "parts:\n- staves: []\n")
	require.True(t, stderrors.As(err, &validationErr), "got %v", err)

	harmonies := func(elements string) string {
		return `parts:
- id: P1
  staves:
  - number: 1
    voices:
    - number: 1
      kind: harmonies
      measures:
      - number: "1"
        elements:
` + elements
	}

	_, _, err = build(t, harmonies("        - harmony: {root: C, at: 1/2, duration: -1/4}\n"))
	require.True(t, stderrors.As(err, &validationErr), "got %v", err)
	assert.Equal(t, "Harmony", validationErr.Type)
	assert.Equal(t, "duration", validationErr.Field)
	assert.Contains(t, err.Error(), "line 11")

	_, _, err = build(t, harmonies("        - figured_bass: {figures: [\"6\"], at: 0/1, duration: -1/2}\n"))
	require.True(t, stderrors.As(err, &validationErr), "got %v", err)
	assert.Equal(t, "FiguredBass", validationErr.Type)

	_, _, err = build(t, harmonies("        - note: {pitch: C4, type: quarter}\n"))
	require.True(t, stderrors.As(err, &validationErr), "got %v", err)
	assert.Equal(t, "note", validationErr.Field)
	var internalErr *errors.InternalError
	assert.False(t, stderrors.As(err, &internalErr))

	_, _, err = build(t, harmonies("        - skip: {type: quarter}\n"))
	assert.NoError(t, err)
}

func TestParsePitch(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want msr.Pitch
		key  int
	}{
		{"C4", msr.Pitch{Step: "C", Octave: 4}, 60},
		{"F#3", msr.Pitch{Step: "F", Alter: 1, Octave: 3}, 54},
		{"Bb5", msr.Pitch{Step: "B", Alter: -1, Octave: 5}, 82},
		{"Ebb-1", msr.Pitch{Step: "E", Alter: -2, Octave: -1}, 2},
	} {
		p, err := builder.ParsePitch(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, p, tc.in)
		assert.Equal(t, tc.key, p.MIDIKey(), tc.in)
	}
	for _, bad := range []string{"", "C", "c4", "C#b4", "X1"} {
		_, err := builder.ParsePitch(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRoot(t *testing.T) {
	p, err := builder.ParseRoot("Eb")
	require.NoError(t, err)
	assert.Equal(t, msr.Pitch{Step: "E", Alter: -1}, p)
	_, err = builder.ParseRoot("E4")
	assert.Error(t, err)
}

func TestParseFigure(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want msr.Figure
	}{
		{"6", msr.Figure{Number: 6}},
		{"#4", msr.Figure{Prefix: "#", Number: 4}},
		{"5+", msr.Figure{Number: 5, Suffix: "+"}},
		{"b", msr.Figure{Prefix: "b"}},
	} {
		f, err := builder.ParseFigure(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, f, tc.in)
		assert.Equal(t, tc.in, f.String())
	}
	for _, bad := range []string{"", "6 5"} {
		_, err := builder.ParseFigure(bad)
		assert.Error(t, err, bad)
	}
}
