package msr_test

import (
	"bytes"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

func TestElementsInPositionOrder(t *testing.T) {
	f := newFixture(t, false)
	hv := f.staff.AddVoice(msr.VoiceHarmonies, 1)
	m := hv.AppendMeasure(1, "1")
	late, first, second := harmony(1, 2), harmony(1, 4), harmony(1, 4)
	second.Kind = msr.HarmonyMinor
	require.NoError(t, m.AppendHarmony(late, pos(1, 2)))
	require.NoError(t, m.AppendHarmony(first, wholenotes.Start))
	require.NoError(t, m.AppendHarmony(second, wholenotes.Start))

	collect := func() []msr.Element {
		var out []msr.Element
		for e, p := range m.Elements() {
			assert.True(t, e.Position().Equal(p))
			out = append(out, e)
		}
		return out
	}
	want := []msr.Element{first, second, late}
	assert.Equal(t, want, collect())
	assert.Equal(t, want, collect())
	assert.Same(t, late, m.Element(0))

	for e := range m.Elements() {
		assert.Same(t, first, e)
		break
	}
}

func TestForEachElement(t *testing.T) {
	f := newFixture(t, false)
	m := f.measure(t, f.voice, "1", 1, 1, 1)

	n := 0
	err := m.ForEachElement(func(e msr.Element, p wholenotes.Position) error {
		n++
		return msr.StopIteration
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	boom := stderrors.New("boom")
	err = m.ForEachElement(func(e msr.Element, p wholenotes.Position) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestVoiceMeasures(t *testing.T) {
	f := newFixture(t, false)
	f.measure(t, f.voice, "1")
	f.measure(t, f.voice, "2")
	f.voice.AddSegment()
	f.measure(t, f.voice, "3")

	var numbers []string
	for m := range f.voice.Measures() {
		numbers = append(numbers, m.Number())
	}
	assert.Equal(t, []string{"1", "2", "3"}, numbers)

	numbers = nil
	err := f.voice.ForEachMeasure(func(m *msr.Measure) error {
		numbers = append(numbers, m.Number())
		if m.Number() == "2" {
			return msr.StopIteration
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, numbers)
}

func TestDump(t *testing.T) {
	f := newFixture(t, false)
	m := f.voice.AppendMeasure(1, "1")
	require.NoError(t, m.AppendTimeSignature(msr.NewTimeSignature(1, 4, 4)))
	require.NoError(t, m.AppendNote(note(1, 1)))
	require.NoError(t, f.score.Finalize())

	var buf bytes.Buffer
	require.NoError(t, msr.Dump(&buf, f.score))
	out := buf.String()
	assert.Contains(t, out, "\n  voice P1/1/1, 1 measures, ends at 1/1\n")
	assert.Contains(t, out, "\n    measure 1: ordinal 1, purist 1, regular, 1/1 of 1/1, end-regular yes\n")
	assert.Contains(t, out, "\n      @0/1 time 4/4\n")
	assert.Contains(t, out, "\n      @0/1 note C4 1/1\n")
}
