package processor

import (
	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// bar is a measure of the first regular voice, in ticks.
type bar struct {
	Number string
	Kind   msr.MeasureKind

	// bar position.
	Begin  int64
	Length int64

	// BeatLength is the length of a quarter note.
	BeatLength int64
}

func (b bar) End() int64 {
	return b.Begin + b.Length
}

// FromTick returns the beat of the bar tick falls on, counting from 0.
func (b bar) FromTick(tick int64) float64 {
	return float64(tick-b.Begin) / float64(b.BeatLength)
}

type bars []bar

// FromTick returns the index of the bar tick falls in and the beat in it.
// Ticks past the end count as the last bar.
func (b bars) FromTick(tick int64) (int, float64) {
	last := len(b) - 1
	for i, bar := range b {
		if i == last || tick < bar.End() {
			return i, bar.FromTick(tick)
		}
	}
	return 0, -1
}

// findBars returns the bars of the first regular voice of s.
func findBars(s *msr.Score, ticksPerQuarter int) bars {
	for _, p := range s.Parts() {
		for _, v := range p.Voices() {
			if v.Kind() != msr.VoiceRegular {
				continue
			}
			var b bars
			start := wholenotes.Start
			for m := range v.Measures() {
				begin, _ := ticksOf(start, ticksPerQuarter)
				start = start.Add(m.CurrentPosition().Offset())
				end, _ := ticksOf(start, ticksPerQuarter)
				b = append(b, bar{
					Number:     m.Number(),
					Kind:       m.Kind(),
					Begin:      begin,
					Length:     end - begin,
					BeatLength: int64(ticksPerQuarter),
				})
			}
			return b
		}
	}
	return nil
}
