package processor

import (
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/msrconverser/internal/diag"
)

// dumpTempo traces the tempo changes and bar lengths of the song in concise
// form.
func dumpTempo(l *diag.Log, prefix string, mid *smf.SMF, b bars) {
	if !l.Tracing(diag.TraceMIDI) || len(b) == 0 {
		return
	}
	ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		var bpm float64
		if !msg.GetMetaTempo(&bpm) {
			return nil
		}
		i, beat := b.FromTick(time)
		l.Tracef(diag.TraceMIDI, "%s: %s.(%v) @ %d: tempo is %f bpm.", prefix, b[i].Number, beat+1, time, bpm)
		return nil
	})
	start := 0
	for i := 1; i <= len(b); i++ {
		if i < len(b) && b[i].Length == b[start].Length {
			continue
		}
		plural := "s"
		if i-start == 1 {
			plural = ""
		}
		l.Tracef(diag.TraceMIDI, "%s: %s @ %d: %d bar%s of %d ticks (%v).", prefix, b[start].Number, b[start].Begin, i-start, plural, b[start].Length, b[start].Kind)
		start = i
	}
	l.Tracef(diag.TraceMIDI, "%s: %d: end.", prefix, b[len(b)-1].End())
}
