package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

func TestEffective(t *testing.T) {
	c := Effective(&Config{Tempo: 90, Trace: []string{"measures"}}, &Options{
		Config: &Config{Velocity: 100, Trace: []string{"midi"}},
	})
	assert.Equal(t, 90.0, c.Tempo)
	assert.Equal(t, uint8(100), c.Velocity)
	assert.Equal(t, 480, c.TicksPerQuarter)
	assert.Equal(t, []string{"measures", "midi"}, c.Trace)
	assert.NoError(t, c.Validate())

	c = Effective(nil, nil)
	assert.Equal(t, DefaultConfig(), c)

	c.Channel = 16
	assert.Error(t, c.Validate())
}

func TestTicksOf(t *testing.T) {
	ticks, exact := ticksOf(wholenotes.MustPosition(3, 4), 480)
	assert.Equal(t, int64(1440), ticks)
	assert.True(t, exact)

	ticks, exact = ticksOf(wholenotes.MustPosition(1, 12), 1)
	assert.Equal(t, int64(0), ticks)
	assert.False(t, exact)
}

func TestMeter(t *testing.T) {
	for _, tc := range []struct {
		name       string
		ts         *msr.TimeSignature
		num, denom uint8
		ok         bool
	}{
		{"3/4", msr.NewTimeSignature(0, 3, 4), 3, 4, true},
		{"6/8", msr.NewTimeSignature(0, 6, 8), 6, 8, true},
		{"3/4+2/8", &msr.TimeSignature{Items: []msr.TimeItem{
			{Beats: []int{3}, BeatType: 4},
			{Beats: []int{2}, BeatType: 8},
		}}, 8, 8, true},
		{"5/6", msr.NewTimeSignature(0, 5, 6), 0, 0, false},
		{"senza misura", &msr.TimeSignature{Symbol: msr.TimeSymbolSenzaMisura}, 0, 0, false},
	} {
		num, denom, ok := meter(tc.ts)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.num, num, tc.name)
		assert.Equal(t, tc.denom, denom, tc.name)
	}
}

func TestNoteTracker(t *testing.T) {
	tr := newNoteTracker()
	on := smf.Message(midi.NoteOn(1, 60, 80))
	off := smf.Message(midi.NoteOff(1, 60))
	assert.True(t, tr.Handle(0, on))
	assert.False(t, tr.Handle(10, on))
	assert.Equal(t, int64(0), tr.NoteStart(Key{1, 60}))
	assert.False(t, tr.Handle(20, off))
	assert.True(t, tr.Playing())
	assert.True(t, tr.Handle(30, off))
	assert.False(t, tr.Playing())
	assert.False(t, tr.Handle(40, off))
	assert.True(t, tr.Handle(50, smf.MetaText("hello")))
}

func TestTrackBuilder(t *testing.T) {
	var b trackBuilder
	b.add(10, smf.Message(midi.NoteOn(0, 62, 80)))
	b.add(0, smf.Message(midi.NoteOn(0, 60, 80)))
	b.add(10, smf.Message(midi.NoteOff(0, 60)))
	track := b.build()
	require.Len(t, track, 4)
	assert.Equal(t, uint32(0), track[0].Delta)
	assert.True(t, track[1].Message.GetNoteEnd(nil, nil))
	assert.Equal(t, uint32(10), track[1].Delta)
	assert.Equal(t, uint32(0), track[2].Delta)
	assert.True(t, track[3].Message.Is(smf.MetaEndOfTrackMsg))
}

func TestBarsFromTick(t *testing.T) {
	b := bars{
		{Number: "0", Begin: 0, Length: 480, BeatLength: 480},
		{Number: "1", Begin: 480, Length: 1920, BeatLength: 480},
	}
	i, beat := b.FromTick(240)
	assert.Equal(t, 0, i)
	assert.Equal(t, 0.5, beat)
	i, beat = b.FromTick(1440)
	assert.Equal(t, 1, i)
	assert.Equal(t, 2.0, beat)
	i, _ = b.FromTick(10000)
	assert.Equal(t, 1, i)
}
