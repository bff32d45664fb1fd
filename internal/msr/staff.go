package msr

// Staff groups the voices notated on one staff of a part.
type Staff struct {
	id    StaffID
	part  PartID
	score *Score

	Number int

	voices []VoiceID
}

func (st *Staff) ID() StaffID {
	return st.id
}

func (st *Staff) Part() *Part {
	return st.score.Part(st.part)
}

// AddVoice appends a voice of the given kind.
func (st *Staff) AddVoice(kind VoiceKind, number int) *Voice {
	s := st.score
	v := &Voice{
		id:           VoiceID(len(s.voices) + 1),
		staff:        st.id,
		score:        s,
		kind:         kind,
		Number:       number,
		puristNumber: 1,
	}
	s.voices = append(s.voices, v)
	st.voices = append(st.voices, v.id)
	return v
}

// Voices returns the voices in order.
func (st *Staff) Voices() []*Voice {
	out := make([]*Voice, len(st.voices))
	for i, id := range st.voices {
		out[i] = st.score.Voice(id)
	}
	return out
}
