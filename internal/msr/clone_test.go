package msr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/msr"
)

// common returns a finalized 4/4 measure with a clef, a time signature and
// four quarter notes.
func (f *fixture) common(t *testing.T) (*msr.Measure, *msr.TimeSignature) {
	t.Helper()
	m := f.voice.AppendMeasure(1, "1")
	require.NoError(t, m.AppendClef(&msr.Clef{Sign: "G", Line: 2}))
	ts := msr.NewTimeSignature(1, 4, 4)
	require.NoError(t, m.AppendTimeSignature(ts))
	for range 4 {
		require.NoError(t, m.AppendNote(note(1, 4)))
	}
	require.NoError(t, m.Finalize(1, msr.RepeatContextNone, "test"))
	require.Equal(t, msr.KindRegular, m.Kind())
	return m, ts
}

func TestNewbornClone(t *testing.T) {
	f := newFixture(t, false)
	m, _ := f.common(t)
	seg := f.voice.AddSegment()

	c, err := m.NewbornClone(seg)
	require.NoError(t, err)
	assert.Equal(t, m.Number(), c.Number())
	assert.Equal(t, m.DebugNumber(), c.DebugNumber())
	assert.Equal(t, m.PuristNumber(), c.PuristNumber())
	assert.True(t, c.FullMeasureWholeNotes().Equal(m.FullMeasureWholeNotes()))
	assert.Equal(t, msr.KindUnknown, c.Kind())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 2, c.Ordinal())
	assert.Same(t, seg, c.Segment())
	assert.True(t, c.IsFirstInSegment())
	assert.False(t, c.IsFirstInVoice())

	require.NoError(t, c.FinalizeClone(1, m))
	assert.Equal(t, msr.KindMusicallyEmpty, c.Kind())
	assert.Equal(t, 1, f.log.Count(diag.MsgCloneKindDiffers))
}

func TestDeepClone(t *testing.T) {
	f := newFixture(t, false)
	m, ts := f.common(t)
	seg := f.voice.AddSegment()

	c, err := m.DeepClone(seg)
	require.NoError(t, err)
	require.Equal(t, m.Len(), c.Len())
	assert.Same(t, m.Element(0), c.Element(0))
	assert.Same(t, ts, c.Element(1))
	for i := 2; i < m.Len(); i++ {
		orig := m.Element(i).(*msr.Note)
		copied := c.Element(i).(*msr.Note)
		assert.NotSame(t, orig, copied)
		assert.True(t, orig.Duration.Equal(copied.Duration))
		assert.True(t, orig.Position().Equal(copied.Position()))
		assert.Equal(t, m.ID(), orig.MeasureID())
		assert.Equal(t, c.ID(), copied.MeasureID())
	}
	assert.Equal(t, m.Kind(), c.Kind())
	assert.True(t, c.CurrentPosition().Equal(m.CurrentPosition()))
	assert.Equal(t, m.DebugNumber(), c.DebugNumber())

	require.NoError(t, c.FinalizeClone(1, m))
	assert.Equal(t, msr.KindRegular, c.Kind())
	assert.Equal(t, 0, f.log.Count(diag.MsgCloneKindDiffers))
	assert.True(t, c.IsFinalized())
	assert.Equal(t, "FinalizeClone", c.FinalizationContext())
	d, found := f.part.MeasureWholeNotes(c.Ordinal())
	require.True(t, found)
	assert.True(t, d.Equal(wn(1, 1)))

	requireInternal(t, c.FinalizeClone(1, m))
}

func TestDeepCloneSetsTimeSignature(t *testing.T) {
	f := newFixture(t, false)
	m, ts := f.common(t)
	other := f.staff.AddVoice(msr.VoiceRegular, 2)
	require.Nil(t, other.CurrentTimeSignature())

	_, err := m.DeepClone(other.CurrentSegment())
	require.NoError(t, err)
	assert.Same(t, ts, other.CurrentTimeSignature())
}

func TestCopyWithNotesOnly(t *testing.T) {
	f := newFixture(t, false)
	m, _ := f.common(t)
	seg := f.voice.AddSegment()

	c, err := m.CopyWithNotesOnly(seg, "1n")
	require.NoError(t, err)
	assert.Equal(t, "1n", c.Number())
	require.Equal(t, 4, c.Len())
	for i := range c.Len() {
		_, ok := c.Element(i).(*msr.Note)
		assert.True(t, ok)
	}
	assert.Equal(t, msr.KindRegular, c.Kind())
	assert.True(t, c.CurrentPosition().Equal(pos(1, 1)))
	assert.Equal(t, m.PuristNumber(), c.PuristNumber())
}

func TestCloneErrors(t *testing.T) {
	f := newFixture(t, false)
	m, _ := f.common(t)

	_, err := m.NewbornClone(nil)
	requireInternal(t, err)
	_, err = m.DeepClone(nil)
	requireInternal(t, err)
	_, err = m.CopyWithNotesOnly(nil, "x")
	requireInternal(t, err)

	c, err := m.NewbornClone(f.voice.AddSegment())
	require.NoError(t, err)
	requireInternal(t, c.FinalizeClone(1, nil))
}
