package processor

import (
	"cmp"
	"fmt"
	"slices"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

const percussionChannel = 9

type timedEvent struct {
	tick int64
	msg  smf.Message
}

// trackBuilder collects events at absolute ticks, in any order.
type trackBuilder struct {
	name   string
	events []timedEvent
}

func (t *trackBuilder) add(tick int64, msg smf.Message) {
	t.events = append(t.events, timedEvent{tick: tick, msg: msg})
}

// build returns the events as a track with relative deltas. Events at the
// same tick keep their order, except that note ends go first.
func (t *trackBuilder) build() smf.Track {
	slices.SortStableFunc(t.events, func(a, b timedEvent) int {
		return cmp.Compare(a.tick, b.tick)
	})
	var track smf.Track
	var last int64
	for _, ev := range t.events {
		track = append(track, smf.Event{
			Delta:   uint32(ev.tick - last),
			Message: ev.msg,
		})
		last = ev.tick
	}
	sortNoteOffFirstTrack(track)
	track.Close(0)
	return track
}

// emitter turns finalized scores into MIDI files.
type emitter struct {
	cfg *Config
	log *diag.Log
	enc *encoding.Encoder

	// channels of the regular voices, by voice ID.
	channels map[msr.VoiceID]uint8
}

func newEmitter(cfg *Config, l *diag.Log) (*emitter, error) {
	e, err := htmlindex.Get(cfg.TextEncoding)
	if err != nil {
		return nil, fmt.Errorf("unknown text encoding %q: %w", cfg.TextEncoding, err)
	}
	return &emitter{
		cfg: cfg,
		log: l,
		enc: encoding.ReplaceUnsupported(e.NewEncoder()),
	}, nil
}

// text encodes s for a meta event. Unsupported characters are replaced.
func (e *emitter) text(s string) string {
	out, err := e.enc.String(s)
	if err != nil {
		return s
	}
	return out
}

// ticksOf converts a voice position to MIDI ticks, rounding down. exact is
// false if it had to round.
func ticksOf(p wholenotes.Position, ticksPerQuarter int) (ticks int64, exact bool) {
	r := p.Rational().MulInt(4 * int64(ticksPerQuarter))
	return r.Num() / r.Den(), r.Den() == 1
}

func (e *emitter) ticks(track string, p wholenotes.Position) int64 {
	ticks, exact := ticksOf(p, e.cfg.TicksPerQuarter)
	if !exact {
		e.log.Warn(0, diag.MsgFractionalTicks, track, p)
	}
	return ticks
}

// assignChannels gives every regular voice of s a channel, counting up from
// the configured one and skipping the percussion and harmony channels.
func (e *emitter) assignChannels(s *msr.Score) {
	var candidates []uint8
	for k := range 16 {
		ch := uint8((int(e.cfg.Channel) + k) % 16)
		if ch == percussionChannel || ch == e.cfg.HarmonyChannel {
			continue
		}
		candidates = append(candidates, ch)
	}
	e.channels = map[msr.VoiceID]uint8{}
	i := 0
	for _, p := range s.Parts() {
		for _, v := range p.Voices() {
			if v.Kind() != msr.VoiceRegular {
				continue
			}
			e.channels[v.ID()] = candidates[i%len(candidates)]
			i++
		}
	}
}

// forEachVoiceElement calls yield for the elements of v in voice order,
// with the voice position of the measure holding them. Chord notes and
// tuplet members are not visited separately.
func forEachVoiceElement(v *msr.Voice, yield func(el msr.Element, measureStart wholenotes.Position)) {
	start := wholenotes.Start
	for m := range v.Measures() {
		for el := range m.Elements() {
			yield(el, start)
		}
		start = start.Add(m.CurrentPosition().Offset())
	}
}

func at(el msr.Element, measureStart wholenotes.Position) wholenotes.Position {
	return measureStart.Add(el.Position().Offset())
}

// emit returns a MIDI file of the parts of s for which include returns
// true, and the names of its tracks; nil includes all parts.
func (e *emitter) emit(s *msr.Score, include func(p *msr.Part) bool) (*smf.SMF, []string) {
	if e.channels == nil {
		e.assignChannels(s)
	}
	mid := smf.NewSMF1()
	mid.TimeFormat = smf.MetricTicks(e.cfg.TicksPerQuarter)
	builders := []*trackBuilder{e.conductor(s)}
	for _, p := range s.Parts() {
		if include != nil && !include(p) {
			continue
		}
		for _, v := range p.Voices() {
			var t *trackBuilder
			switch v.Kind() {
			case msr.VoiceRegular:
				t = e.voiceTrack(v)
			case msr.VoiceHarmonies:
				t = e.harmonyTrack(v)
			case msr.VoiceFiguredBass:
				t = e.figuredBassTrack(v)
			default:
				continue
			}
			builders = append(builders, t)
		}
	}
	var names []string
	for _, t := range builders {
		mid.Tracks = append(mid.Tracks, t.build())
		names = append(names, t.name)
	}
	return mid, names
}

// conductor returns the track holding the title, tempos, meters and
// rehearsal marks.
func (e *emitter) conductor(s *msr.Score) *trackBuilder {
	t := &trackBuilder{name: "conductor"}
	t.add(0, smf.MetaTrackSequenceName(e.text(s.Title)))

	tempos := map[int64]bool{}
	marks := map[int64]bool{}
	var meterVoice *msr.Voice
	for _, p := range s.Parts() {
		for _, v := range p.Voices() {
			if v.Kind() != msr.VoiceRegular {
				continue
			}
			if meterVoice == nil {
				meterVoice = v
			}
			forEachVoiceElement(v, func(el msr.Element, start wholenotes.Position) {
				switch el := el.(type) {
				case *msr.Tempo:
					tick := e.ticks(t.name, at(el, start))
					if !tempos[tick] {
						t.add(tick, smf.MetaTempo(el.QuarterBPM()))
						tempos[tick] = true
					}
				case *msr.RehearsalMark:
					tick := e.ticks(t.name, at(el, start))
					if !marks[tick] {
						t.add(tick, smf.MetaMarker(e.text(el.Text)))
						marks[tick] = true
					}
				}
			})
		}
	}
	if !tempos[0] {
		t.add(0, smf.MetaTempo(e.cfg.Tempo))
	}

	if meterVoice != nil {
		var last [2]uint8
		forEachVoiceElement(meterVoice, func(el msr.Element, start wholenotes.Position) {
			ts, ok := el.(*msr.TimeSignature)
			if !ok {
				return
			}
			num, denom, ok := meter(ts)
			if !ok || [2]uint8{num, denom} == last {
				return
			}
			t.add(e.ticks(t.name, at(el, start)), smf.MetaMeter(num, denom))
			last = [2]uint8{num, denom}
		})
	}
	return t
}

// meter expresses a time signature as a single fraction over its largest
// beat type, e.g. 3/4+2/8 as 8/8. Senza misura has none.
func meter(ts *msr.TimeSignature) (num, denom uint8, ok bool) {
	if ts.IsSenzaMisura() {
		return 0, 0, false
	}
	d := 0
	for _, item := range ts.Items {
		d = max(d, item.BeatType)
	}
	if d <= 0 || d > 128 || d&(d-1) != 0 {
		return 0, 0, false
	}
	n := ts.WholeNotesPerMeasure().Rational().MulInt(int64(d))
	if n.Den() != 1 || n.Num() <= 0 || n.Num() > 255 {
		return 0, 0, false
	}
	return uint8(n.Num()), uint8(d), true
}

func (e *emitter) velocity(v, fallback uint8) uint8 {
	if v == 0 {
		return fallback
	}
	return v
}

// sound adds a note on at start and its note off after d.
func (e *emitter) sound(t *trackBuilder, ch uint8, key int, velocity uint8, start wholenotes.Position, d wholenotes.Duration, what fmt.Stringer) {
	if d.Sign() <= 0 {
		return
	}
	if key < 0 || key > 127 {
		e.log.Warn(0, diag.MsgKeyOutOfRange, t.name, what)
		return
	}
	t.add(e.ticks(t.name, start), smf.Message(midi.NoteOn(ch, uint8(key), velocity)))
	t.add(e.ticks(t.name, start.Add(d)), smf.Message(midi.NoteOff(ch, uint8(key))))
}

func (e *emitter) note(t *trackBuilder, ch uint8, n *msr.Note, measureStart wholenotes.Position) {
	start := at(n, measureStart)
	switch n.Kind {
	case msr.NoteRegular:
		e.sound(t, ch, n.Pitch.MIDIKey(), e.velocity(n.Velocity, e.cfg.Velocity), start, n.Duration, n.Pitch)
	case msr.NoteUnpitched:
		e.sound(t, percussionChannel, int(e.cfg.UnpitchedKey), e.velocity(n.Velocity, e.cfg.Velocity), start, n.Duration, n)
	}
}

// voiceTrack plays the notes of a regular voice. Rests and skips only
// advance time. Tied notes are played separately.
func (e *emitter) voiceTrack(v *msr.Voice) *trackBuilder {
	t := &trackBuilder{name: v.Name()}
	t.add(0, smf.MetaTrackSequenceName(e.text(v.Name())))
	ch := e.channels[v.ID()]
	var play func(el msr.Element, measureStart wholenotes.Position)
	play = func(el msr.Element, measureStart wholenotes.Position) {
		switch el := el.(type) {
		case *msr.Note:
			e.note(t, ch, el, measureStart)
		case *msr.Chord:
			for _, n := range el.Notes {
				e.note(t, ch, n, measureStart)
			}
		case *msr.Tuplet:
			for _, member := range el.Members {
				play(member, measureStart)
			}
		}
	}
	forEachVoiceElement(v, play)
	return t
}

// harmonyKeys returns the keys of a harmony voiced above its root in the
// given octave, with the bass an octave lower. Unknown kinds play the root
// alone.
func harmonyKeys(h *msr.Harmony, octave int) (keys []int, known bool) {
	intervals, known := h.Kind.Intervals()
	if !known {
		intervals = []int{0}
	}
	root := msr.Pitch{Step: h.Root.Step, Alter: h.Root.Alter, Octave: octave}
	if h.Bass != nil {
		bass := msr.Pitch{Step: h.Bass.Step, Alter: h.Bass.Alter, Octave: octave - 1}
		keys = append(keys, bass.MIDIKey())
	}
	for _, iv := range intervals {
		keys = append(keys, root.MIDIKey()+iv)
	}
	return keys, known
}

func (e *emitter) harmonyTrack(v *msr.Voice) *trackBuilder {
	t := &trackBuilder{name: v.Name()}
	t.add(0, smf.MetaTrackSequenceName(e.text(v.Name())))
	forEachVoiceElement(v, func(el msr.Element, start wholenotes.Position) {
		h, ok := el.(*msr.Harmony)
		if !ok {
			return
		}
		keys, known := harmonyKeys(h, e.cfg.HarmonyOctave)
		if !known {
			e.log.Warn(h.Line, diag.MsgUnsupportedHarmony, h.Kind)
		}
		if h.Text != "" {
			t.add(e.ticks(t.name, at(h, start)), smf.MetaText(e.text(h.Text)))
		}
		for _, key := range keys {
			e.sound(t, e.cfg.HarmonyChannel, key, e.cfg.HarmonyVelocity, at(h, start), h.Duration, h)
		}
	})
	return t
}

func (e *emitter) figuredBassTrack(v *msr.Voice) *trackBuilder {
	t := &trackBuilder{name: v.Name()}
	t.add(0, smf.MetaTrackSequenceName(e.text(v.Name())))
	forEachVoiceElement(v, func(el msr.Element, start wholenotes.Position) {
		f, ok := el.(*msr.FiguredBass)
		if !ok || len(f.Figures) == 0 {
			return
		}
		t.add(e.ticks(t.name, at(f, start)), smf.MetaText(e.text(f.Text())))
	})
	return t
}
