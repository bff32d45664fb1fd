package processor

import (
	"gitlab.com/gomidi/midi/v2/smf"
)

// adjustTempo scales all tempo events by factor.
func adjustTempo(mid *smf.SMF, factor float64) error {
	return rebuild(mid, func(time int64, track int, msg smf.Message) []smf.Message {
		var bpm float64
		if msg.GetMetaTempo(&bpm) {
			msg = smf.MetaTempo(bpm * factor)
		}
		return []smf.Message{msg}
	})
}
