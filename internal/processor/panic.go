package processor

import (
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// panicMIDI generates a new MIDI file that turns all notes off that the input file ever plays.
func panicMIDI(mid *smf.SMF) (*smf.SMF, error) {
	notes := map[Key]struct{}{}
	err := ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		var ch, note uint8
		if msg.GetNoteStart(&ch, &note, nil) {
			notes[Key{ch, note}] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	var keys []Key
	for k := range notes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, KeySorter)
	var track smf.Track
	for _, k := range keys {
		track.Add(0, midi.NoteOff(k.ch, k.note))
	}
	track.Close(0)
	newMIDI := smf.NewSMF1()
	newMIDI.TimeFormat = mid.TimeFormat
	newMIDI.Tracks = append(newMIDI.Tracks, track)
	return newMIDI, nil
}
