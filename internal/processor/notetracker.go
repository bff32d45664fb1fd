package processor

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// Key identifies a sounding note.
type Key struct {
	ch, note uint8
}

// KeySorter orders keys by channel, then note.
func KeySorter(a, b Key) int {
	if a.ch != b.ch {
		return int(a.ch) - int(b.ch)
	}
	return int(a.note) - int(b.note)
}

// noteTracker counts how often each key is playing.
type noteTracker struct {
	activeNotes map[Key]int
	noteStart   map[Key]int64
}

func newNoteTracker() *noteTracker {
	return &noteTracker{
		activeNotes: map[Key]int{},
		noteStart:   map[Key]int64{},
	}
}

func (t *noteTracker) Playing() bool {
	return len(t.activeNotes) > 0
}

// NoteStart returns when the key was last started.
func (t *noteTracker) NoteStart(k Key) int64 {
	return t.noteStart[k]
}

// Handle updates the counts and returns whether the message changes what is
// heard: a note start of a silent key or the last note end of a key.
// Other messages are always included.
func (t *noteTracker) Handle(time int64, msg smf.Message) bool {
	var ch, note uint8
	if msg.GetNoteStart(&ch, &note, nil) {
		k := Key{ch, note}
		result := t.activeNotes[k] == 0
		t.activeNotes[k]++
		if result {
			t.noteStart[k] = time
		}
		return result
	}
	if msg.GetNoteEnd(&ch, &note) {
		k := Key{ch, note}
		result := t.activeNotes[k] == 1
		if t.activeNotes[k] > 0 {
			t.activeNotes[k]--
			if t.activeNotes[k] == 0 {
				delete(t.activeNotes, k)
			}
		}
		return result
	}
	return true
}
