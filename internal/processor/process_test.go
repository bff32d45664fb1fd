package processor_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
	"gopkg.in/yaml.v3"

	"github.com/divVerent/msrconverser/internal/builder"
	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/processor"
)

// song wraps the given voices into a one-part score description.
func song(voices string) string {
	return `title: Test
parts:
- id: P1
  staves:
  - number: 1
    voices:
` + voices
}

func process(t *testing.T, desc string, config *processor.Config, options *processor.Options) *processor.Result {
	t.Helper()
	var d builder.Score
	require.NoError(t, yaml.Unmarshal([]byte(desc), &d))
	if config == nil {
		config = &processor.Config{}
	}
	config.Language = "en"
	res, err := processor.Process(&d, config, options, func(diag.Diagnostic) {})
	require.NoError(t, err)
	return res
}

func all(res *processor.Result) *smf.SMF {
	return res.Output[processor.OutputKey{Special: processor.All}]
}

func count(res *processor.Result, key string) int {
	n := 0
	for _, d := range res.Diagnostics {
		if d.Key == key {
			n++
		}
	}
	return n
}

func notes(t *testing.T, mid *smf.SMF) []string {
	t.Helper()
	var out []string
	err := processor.ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			out = append(out, fmt.Sprintf("%d: on %d/%d %d", time, ch, key, vel))
		case msg.GetNoteEnd(&ch, &key):
			out = append(out, fmt.Sprintf("%d: off %d/%d", time, ch, key))
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func tempos(t *testing.T, mid *smf.SMF) []float64 {
	t.Helper()
	var out []float64
	require.NoError(t, processor.ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		var bpm float64
		if msg.GetMetaTempo(&bpm) {
			out = append(out, bpm)
		}
		return nil
	}))
	return out
}

const melody = `    - number: 1
      measures:
      - number: "1"
        elements:
        - time: {beats: "4", beat_type: 4}
        - note: {pitch: C4, type: quarter}
        - note: {pitch: D4, type: half}
        - note: {pitch: E4, type: quarter}
      - number: "2"
        elements:
        - rest: {type: half}
        - note: {pitch: C4, type: quarter, velocity: 100}
`

func TestProcessTicks(t *testing.T) {
	res := process(t, song(melody), nil, nil)
	assert.Equal(t, []string{
		"0: on 0/60 80",
		"480: off 0/60",
		"480: on 0/62 80",
		"1440: off 0/62",
		"1440: on 0/64 80",
		"1920: off 0/64",
		"2880: on 0/60 100",
		"3360: off 0/60",
	}, notes(t, all(res)))
	assert.Equal(t, smf.MetricTicks(480), all(res).TimeFormat)

	v := res.Score.Parts()[0].Voices()[0]
	var kinds []msr.MeasureKind
	for m := range v.Measures() {
		kinds = append(kinds, m.Kind())
	}
	assert.Equal(t, []msr.MeasureKind{msr.KindRegular, msr.KindIncompleteStandalone}, kinds)
}

func TestProcessTicksPerQuarter(t *testing.T) {
	res := process(t, song(melody), &processor.Config{TicksPerQuarter: 96}, nil)
	got := notes(t, all(res))
	require.Len(t, got, 8)
	assert.Equal(t, "96: off 0/60", got[1])
	assert.Equal(t, "672: off 0/60", got[7])
}

func TestProcessRoundTrip(t *testing.T) {
	res := process(t, song(melody), nil, nil)
	var buf bytes.Buffer
	_, err := all(res).WriteTo(&buf)
	require.NoError(t, err)
	back, err := smf.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, notes(t, all(res)), notes(t, back))
	assert.Len(t, back.Tracks, 2)
}

func TestProcessHarmonies(t *testing.T) {
	res := process(t, song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - rest: {type: whole}
    - number: 2
      kind: harmonies
      measures:
      - number: "1"
        elements:
        - harmony: {root: G, kind: dominant, bass: B, at: 1/4, duration: 1/2}
        - harmony: {root: C, kind: pedal, at: 3/4, duration: 1/4}
`), nil, nil)
	assert.Equal(t, []string{
		"480: on 15/47 56",
		"480: on 15/55 56",
		"480: on 15/59 56",
		"480: on 15/62 56",
		"480: on 15/65 56",
		"1440: off 15/47",
		"1440: off 15/55",
		"1440: off 15/59",
		"1440: off 15/62",
		"1440: off 15/65",
		"1440: on 15/48 56",
		"1920: off 15/48",
	}, notes(t, all(res)))
	assert.Equal(t, 1, count(res, diag.MsgUnsupportedHarmony))
}

func TestProcessFiguredBass(t *testing.T) {
	res := process(t, song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - note: {pitch: C3, type: whole}
    - number: 2
      kind: figured-bass
      measures:
      - number: "1"
        elements:
        - figured_bass: {figures: ["6", "#4"], at: 1/2, duration: 1/2}
`), nil, nil)
	var texts []string
	require.NoError(t, processor.ForEachEventWithTime(all(res), func(time int64, track int, msg smf.Message) error {
		var text string
		if msg.GetMetaText(&text) {
			texts = append(texts, fmt.Sprintf("%d: %s", time, text))
		}
		return nil
	}))
	assert.Equal(t, []string{"960: 6 #4"}, texts)
}

func TestProcessTempo(t *testing.T) {
	withTempo := song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - tempo: {unit: quarter, dots: 1, per_minute: 60}
        - note: {pitch: C4, type: whole}
`)
	res := process(t, withTempo, nil, nil)
	require.Len(t, tempos(t, all(res)), 1)
	assert.InDelta(t, 90, tempos(t, all(res))[0], 0.01)

	res = process(t, withTempo, nil, &processor.Options{TempoFactor: 2})
	require.Len(t, tempos(t, all(res)), 1)
	assert.InDelta(t, 180, tempos(t, all(res))[0], 0.01)

	res = process(t, song(melody), &processor.Config{Tempo: 100}, nil)
	require.Len(t, tempos(t, all(res)), 1)
	assert.InDelta(t, 100, tempos(t, all(res))[0], 0.01)
}

func TestProcessMeter(t *testing.T) {
	res := process(t, song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - time: {beats: "3", beat_type: 4}
        - note: {pitch: C4, type: half, dots: 1}
      - number: "2"
        elements:
        - time: {symbol: common}
        - note: {pitch: C4, type: whole}
      - number: "3"
        elements:
        - time: {beats: "4", beat_type: 4}
        - note: {pitch: C4, type: whole}
`), nil, nil)
	var meters []string
	require.NoError(t, processor.ForEachEventWithTime(all(res), func(time int64, track int, msg smf.Message) error {
		var num, denom, cpt, dsqpq uint8
		if msg.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq) {
			meters = append(meters, fmt.Sprintf("%d: %d/%d", time, num, denom))
		}
		return nil
	}))
	assert.Equal(t, []string{"0: 3/4", "1440: 4/4"}, meters)
}

func TestProcessOverlappingNotes(t *testing.T) {
	res := process(t, song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - note: {unpitched: true, type: half}
        - rest: {type: half}
    - number: 2
      measures:
      - number: "1"
        elements:
        - rest: {type: quarter}
        - note: {unpitched: true, type: quarter}
        - rest: {type: half}
`), nil, nil)
	assert.Equal(t, []string{
		"0: on 9/38 80",
		"480: off 9/38",
		"480: on 9/38 80",
		"960: off 9/38",
	}, notes(t, all(res)))
	assert.Equal(t, 1, count(res, diag.MsgNoteOverlap))
}

func TestProcessUnison(t *testing.T) {
	res := process(t, song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - chord: {pitches: [C4, C4, G4], type: whole}
`), nil, nil)
	assert.Equal(t, []string{
		"0: on 0/60 80",
		"0: on 0/67 80",
		"1920: off 0/60",
		"1920: off 0/67",
	}, notes(t, all(res)))
	assert.Equal(t, 0, count(res, diag.MsgNoteOverlap))
}

func TestProcessPerPartAndPanic(t *testing.T) {
	res := process(t, `parts:
- id: P1
  staves:
  - number: 1
    voices:
    - number: 1
      measures:
      - number: "1"
        elements:
        - note: {pitch: C4, type: whole}
- id: P2
  staves:
  - number: 1
    voices:
    - number: 1
      measures:
      - number: "1"
        elements:
        - note: {pitch: E4, type: whole}
`, &processor.Config{PerPart: true, Panic: true}, nil)
	require.Len(t, res.Output, 4)
	assert.Equal(t, []string{
		"0: on 0/60 80",
		"0: on 1/64 80",
		"1920: off 0/60",
		"1920: off 1/64",
	}, notes(t, all(res)))
	assert.Equal(t, []string{
		"0: on 1/64 80",
		"1920: off 1/64",
	}, notes(t, res.Output[processor.OutputKey{Special: processor.PartOnly, Part: "P2"}]))
	assert.Equal(t, []string{
		"0: off 0/60",
		"0: off 1/64",
	}, notes(t, res.Output[processor.OutputKey{Special: processor.Panic}]))
	assert.Equal(t, "part.P2", processor.OutputKey{Special: processor.PartOnly, Part: "P2"}.String())
}

func TestProcessTitleEncoding(t *testing.T) {
	res := process(t, song(melody), &processor.Config{TextEncoding: "windows-1252"}, &processor.Options{Title: "Café"})
	assert.Equal(t, "Café", res.Score.Title)
	var name string
	require.True(t, all(res).Tracks[0][0].Message.GetMetaTrackName(&name))
	assert.Equal(t, "Caf\xe9", name)
}

func TestProcessFractionalTicks(t *testing.T) {
	res := process(t, song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - tuplet:
            actual: 3
            normal: 2
            members:
            - note: {pitch: C4, type: eighth}
            - note: {pitch: D4, type: eighth}
            - note: {pitch: E4, type: eighth}
        - rest: {type: half, dots: 1}
`), &processor.Config{TicksPerQuarter: 1}, nil)
	assert.Greater(t, count(res, diag.MsgFractionalTicks), 0)
}

func TestProcessErrors(t *testing.T) {
	var d builder.Score
	require.NoError(t, yaml.Unmarshal([]byte(song(melody)), &d))
	sink := func(diag.Diagnostic) {}

	_, err := processor.Process(&d, &processor.Config{Tempo: -1}, nil, sink)
	assert.ErrorContains(t, err, "invalid config")

	_, err = processor.Process(&d, &processor.Config{Trace: []string{"everything"}}, nil, sink)
	assert.ErrorContains(t, err, "invalid config")

	_, err = processor.Process(&d, &processor.Config{TextEncoding: "klingon"}, nil, sink)
	assert.ErrorContains(t, err, "klingon")

	var bad builder.Score
	require.NoError(t, yaml.Unmarshal([]byte(song(`    - number: 1
      measures:
      - number: "1"
        elements:
        - note: {pitch: Q4, type: quarter}
`)), &bad))
	_, err = processor.Process(&bad, nil, nil, sink)
	assert.ErrorContains(t, err, "could not build score")
}
