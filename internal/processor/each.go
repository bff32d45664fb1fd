package processor

import (
	"errors"

	"gitlab.com/gomidi/midi/v2/smf"
)

// StopIteration can be returned to return without failure.
var StopIteration = errors.New("ForEachEventWithTime: StopIteration")

// ForEachEventWithTime runs the given function for each event of all tracks
// in time order, with its absolute tick and track index. At equal ticks,
// note ends come first. End of track events are not passed on.
func ForEachEventWithTime(mid *smf.SMF, yield func(time int64, track int, msg smf.Message) error) error {
	// trackPos is the index of the NEXT event from each track.
	trackPos := make([]int, len(mid.Tracks))
	// trackTime is the time of the LAST event from each track.
	trackTime := make([]int64, len(mid.Tracks))
	for {
		earliestTrack := -1
		var earliestTime int64
		var earliestNoteOff bool
		for i, t := range mid.Tracks {
			p := trackPos[i]
			if p >= len(t) {
				continue
			}
			time := trackTime[i] + int64(t[p].Delta)
			noteOff := t[p].Message.GetNoteEnd(nil, nil)
			if earliestTrack < 0 || time < earliestTime || (time == earliestTime && noteOff && !earliestNoteOff) {
				earliestTime = time
				earliestTrack = i
				earliestNoteOff = noteOff
			}
		}
		if earliestTrack < 0 {
			return nil
		}
		msg := mid.Tracks[earliestTrack][trackPos[earliestTrack]].Message
		if !msg.Is(smf.MetaEndOfTrackMsg) {
			err := yield(earliestTime, earliestTrack, msg)
			if errors.Is(err, StopIteration) {
				return nil
			}
			if err != nil {
				return err
			}
		}
		trackPos[earliestTrack]++
		trackTime[earliestTrack] = earliestTime
	}
}

// rebuild replaces the tracks of mid by running every event through
// filter, which returns the events to keep at that time in that track.
func rebuild(mid *smf.SMF, filter func(time int64, track int, msg smf.Message) []smf.Message) error {
	tracks := make([]smf.Track, len(mid.Tracks))
	trackTime := make([]int64, len(mid.Tracks))
	err := ForEachEventWithTime(mid, func(time int64, track int, msg smf.Message) error {
		for _, out := range filter(time, track, msg) {
			tracks[track] = append(tracks[track], smf.Event{
				Delta:   uint32(time - trackTime[track]),
				Message: out,
			})
			trackTime[track] = time
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i := range tracks {
		tracks[i].Close(0)
	}
	mid.Tracks = tracks
	return nil
}
