package processor

import (
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/divVerent/msrconverser/internal/diag"
)

// removeRedundantNoteEvents makes overlapping notes of the same key playable.
// A note started while the key still sounds restarts it, with a note end
// inserted before; the note ends matching the restarts are dropped. Notes
// starting together on the same key are played once.
func removeRedundantNoteEvents(mid *smf.SMF, l *diag.Log, names []string) error {
	tracker := newNoteTracker()
	return rebuild(mid, func(time int64, track int, msg smf.Message) []smf.Message {
		var ch, note uint8
		isStart := msg.GetNoteStart(&ch, &note, nil)
		var prevStart int64
		if isStart {
			prevStart = tracker.NoteStart(Key{ch, note})
		}
		if tracker.Handle(time, msg) {
			return []smf.Message{msg}
		}
		if !isStart || time == prevStart {
			return nil
		}
		name := ""
		if track < len(names) {
			name = names[track]
		}
		l.Warn(0, diag.MsgNoteOverlap, name, note)
		tracker.noteStart[Key{ch, note}] = time
		return []smf.Message{smf.Message(midi.NoteOff(ch, note)), msg}
	})
}
