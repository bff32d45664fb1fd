package builder

import (
	"fmt"

	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/msr"
	"github.com/divVerent/msrconverser/internal/rational"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Build creates the score described by desc. The score is not finalized.
func Build(ctx *msr.Context, desc *Score) (*msr.Score, error) {
	s := msr.NewScore(ctx, desc.Title)
	if desc.Measures > 0 {
		s.SetNumberOfMeasures(desc.Measures)
	}
	for _, pd := range desc.Parts {
		if pd.ID == "" {
			return nil, &errors.ValidationError{Type: "Part", Field: "id", Reason: "must not be empty"}
		}
		p := s.AddPart(pd.ID)
		for _, sd := range pd.Staves {
			st := p.AddStaff(sd.Number)
			for i := range sd.Voices {
				vd := &sd.Voices[i]
				v := st.AddVoice(vd.Kind, vd.Number)
				err := buildVoice(v, vd)
				if err != nil {
					return nil, fmt.Errorf("could not build voice %v: %w", v.Name(), err)
				}
			}
		}
	}
	return s, nil
}

func buildVoice(v *msr.Voice, vd *Voice) error {
	byNumber := map[string]*msr.Measure{}
	for i := range vd.Measures {
		md := &vd.Measures[i]
		if md.NewSegment && len(v.Segments()) > 0 {
			v.AddSegment()
		}
		m, err := newMeasure(v, md, byNumber)
		if err != nil {
			return fmt.Errorf("line %d: %w", md.Line, err)
		}
		ctx := msr.RepeatContextNone
		if md.RepeatContext != nil {
			ctx = *md.RepeatContext
		}
		m.SetRepeatContext(ctx)
		if md.NextNumber != "" {
			m.SetNextNumber(md.NextNumber)
		}
		for j := range md.Elements {
			e := &md.Elements[j]
			if field := noteField(e); field != "" && (v.Kind() == msr.VoiceHarmonies || v.Kind() == msr.VoiceFiguredBass) {
				return fmt.Errorf("line %d: %w", e.Line, &errors.ValidationError{Type: "Element", Field: field, Reason: fmt.Sprintf("not allowed in a %v voice", v.Kind())})
			}
			err := appendElement(m, e)
			if err != nil {
				return fmt.Errorf("line %d: %w", e.Line, err)
			}
		}
		if md.Capacity != nil {
			m.SetFullMeasureWholeNotes(*md.Capacity)
		}
		byNumber[md.Number] = m
	}
	return nil
}

func newMeasure(v *msr.Voice, md *Measure, byNumber map[string]*msr.Measure) (*msr.Measure, error) {
	if md.Repeat == nil {
		return v.AppendMeasure(md.Line, md.Number), nil
	}
	orig := byNumber[md.Repeat.Of]
	if orig == nil {
		return nil, fmt.Errorf("measure %q repeats unknown measure %q", md.Number, md.Repeat.Of)
	}
	seg := v.CurrentSegment()
	switch md.Repeat.Mode {
	case RepeatDeep, "":
		return orig.DeepClone(seg)
	case RepeatNotesOnly:
		return orig.CopyWithNotesOnly(seg, md.Number)
	case RepeatNewborn:
		return orig.NewbornClone(seg)
	}
	return nil, &errors.ParseError{Type: "RepeatMode", Value: string(md.Repeat.Mode)}
}

// noteField returns the name of the note-like content of e, or "". Skips
// do not count.
func noteField(e *Element) string {
	switch {
	case e.Note != nil:
		return "note"
	case e.Rest != nil:
		return "rest"
	case e.Chord != nil:
		return "chord"
	case e.Tuplet != nil:
		return "tuplet"
	}
	return ""
}

func base(line int) msr.ElementBase {
	return msr.ElementBase{Line: line}
}

func appendElement(m *msr.Measure, e *Element) error {
	switch {
	case e.Note != nil:
		n, err := buildNote(e.Line, e.Note, msr.NoteRegular, rational.One)
		if err != nil {
			return err
		}
		return m.AppendNote(n)
	case e.Rest != nil:
		n, err := buildNote(e.Line, e.Rest, msr.NoteRest, rational.One)
		if err != nil {
			return err
		}
		return m.AppendNote(n)
	case e.Skip != nil:
		n, err := buildNote(e.Line, e.Skip, msr.NoteSkip, rational.One)
		if err != nil {
			return err
		}
		return m.AppendNote(n)
	case e.Chord != nil:
		c, err := buildChord(e.Line, e.Chord, rational.One)
		if err != nil {
			return err
		}
		return m.AppendChord(c)
	case e.Tuplet != nil:
		t, err := buildTuplet(e.Line, e.Tuplet)
		if err != nil {
			return err
		}
		return m.AppendTuplet(t)
	case e.Clef != nil:
		return m.AppendClef(&msr.Clef{ElementBase: base(e.Line), Sign: e.Clef.Sign, Line: e.Clef.Line})
	case e.Key != nil:
		return m.AppendKey(&msr.Key{ElementBase: base(e.Line), Fifths: e.Key.Fifths, Mode: e.Key.Mode})
	case e.Time != nil:
		ts, err := buildTime(e.Line, e.Time)
		if err != nil {
			return err
		}
		return m.AppendTimeSignature(ts)
	case e.BarLine != nil:
		return m.AppendBarLine(&msr.BarLine{
			ElementBase: base(e.Line),
			Location:    e.BarLine.Location,
			Style:       e.BarLine.Style,
			Repeat:      e.BarLine.Repeat,
		})
	case e.Harmony != nil:
		h, err := buildHarmony(e.Line, e.Harmony)
		if err != nil {
			return err
		}
		return m.AppendHarmony(h, e.Harmony.At)
	case e.Figured != nil:
		f, err := buildFiguredBass(e.Line, e.Figured)
		if err != nil {
			return err
		}
		return m.AppendFiguredBass(f, e.Figured.At)
	case e.Tempo != nil:
		unit := e.Tempo.Unit
		if unit == wholenotes.KindUnknown {
			unit = wholenotes.KindQuarter
		}
		if e.Tempo.PerMinute <= 0 {
			return &errors.ValidationError{Type: "Tempo", Field: "per_minute", Reason: "must be positive", Value: e.Tempo.PerMinute}
		}
		return m.AppendOther(&msr.Tempo{
			ElementBase: base(e.Line),
			Unit:        unit,
			Dots:        e.Tempo.Dots,
			PerMinute:   e.Tempo.PerMinute,
			Words:       e.Tempo.Words,
		})
	case e.Rehearsal != nil:
		return m.AppendOther(&msr.RehearsalMark{ElementBase: base(e.Line), Text: *e.Rehearsal})
	case e.Segno:
		return m.AppendOther(&msr.Segno{ElementBase: base(e.Line)})
	case e.Coda:
		return m.AppendOther(&msr.Coda{ElementBase: base(e.Line)})
	case e.Pedal != "":
		return m.AppendOther(&msr.Pedal{ElementBase: base(e.Line), Type: e.Pedal})
	case e.Damp:
		return m.AppendOther(&msr.Damp{ElementBase: base(e.Line)})
	case e.DampAll:
		return m.AppendOther(&msr.DampAll{ElementBase: base(e.Line)})
	case e.LineBreak:
		return m.AppendOther(&msr.LineBreak{ElementBase: base(e.Line)})
	case e.PageBreak:
		return m.AppendOther(&msr.PageBreak{ElementBase: base(e.Line)})
	case e.StaffChange != 0:
		return m.AppendOther(&msr.VoiceStaffChange{ElementBase: base(e.Line), Staff: e.StaffChange})
	case e.BarCheck != "":
		return m.AppendOther(&msr.BarCheck{ElementBase: base(e.Line), NextNumber: e.BarCheck})
	case e.Transpose != nil:
		return m.AppendOther(&msr.Transposition{ElementBase: base(e.Line), Diatonic: e.Transpose.Diatonic, Chromatic: e.Transpose.Chromatic})
	case e.OctaveShift != nil:
		return m.AppendOther(&msr.OctaveShift{ElementBase: base(e.Line), Type: e.OctaveShift.Type, Size: e.OctaveShift.Size})
	}
	return &errors.ValidationError{Type: "Element", Reason: "has no content"}
}

// duration returns the sounding duration of a note or chord: the given one,
// else the type with its dots scaled by the tuplet factor.
func duration(typ wholenotes.Kind, dots int, d *wholenotes.Duration, scale rational.Rational) (wholenotes.Duration, error) {
	if d != nil {
		if d.Sign() < 0 {
			return wholenotes.Duration{}, &errors.ValidationError{Type: "Note", Field: "duration", Reason: "must not be negative", Value: *d}
		}
		return *d, nil
	}
	if typ == wholenotes.KindUnknown {
		return wholenotes.Duration{}, &errors.ValidationError{Type: "Note", Field: "duration", Reason: "needs a duration or a type"}
	}
	return wholenotes.Dotted(typ, dots).Scale(scale), nil
}

func buildNote(line int, nd *Note, kind msr.NoteKind, scale rational.Rational) (*msr.Note, error) {
	d, err := duration(nd.Type, nd.Dots, nd.Duration, scale)
	if err != nil {
		return nil, err
	}
	n := &msr.Note{
		ElementBase: base(line),
		Kind:        kind,
		Duration:    d,
		Display:     nd.Type,
		Dots:        nd.Dots,
		Velocity:    nd.Velocity,
	}
	if n.Display == wholenotes.KindUnknown {
		n.Display, n.Dots, _ = wholenotes.KindFromDuration(d)
	}
	if kind == msr.NoteRegular {
		if nd.Unpitched {
			n.Kind = msr.NoteUnpitched
		} else {
			n.Pitch, err = ParsePitch(nd.Pitch)
			if err != nil {
				return nil, err
			}
		}
	}
	switch nd.Tie {
	case "":
	case "start":
		n.TieStart = true
	case "stop":
		n.TieStop = true
	case "both":
		n.TieStart, n.TieStop = true, true
	default:
		return nil, &errors.ParseError{Type: "Tie", Value: nd.Tie}
	}
	return n, nil
}

func buildChord(line int, cd *Chord, scale rational.Rational) (*msr.Chord, error) {
	if len(cd.Pitches) == 0 {
		return nil, &errors.ValidationError{Type: "Chord", Field: "pitches", Reason: "must not be empty"}
	}
	d, err := duration(cd.Type, cd.Dots, cd.Duration, scale)
	if err != nil {
		return nil, err
	}
	c := &msr.Chord{ElementBase: base(line), Duration: d}
	for _, s := range cd.Pitches {
		p, err := ParsePitch(s)
		if err != nil {
			return nil, err
		}
		c.Notes = append(c.Notes, &msr.Note{
			ElementBase: base(line),
			Kind:        msr.NoteRegular,
			Pitch:       p,
			Duration:    d,
			Display:     cd.Type,
			Dots:        cd.Dots,
			Velocity:    cd.Velocity,
		})
	}
	return c, nil
}

func buildTuplet(line int, td *Tuplet) (*msr.Tuplet, error) {
	if td.Actual <= 0 || td.Normal <= 0 {
		return nil, &errors.ValidationError{Type: "Tuplet", Reason: "ratio must be positive", Value: fmt.Sprintf("%d:%d", td.Actual, td.Normal)}
	}
	scale := rational.MustNew(int64(td.Normal), int64(td.Actual))
	t := &msr.Tuplet{ElementBase: base(line), Actual: td.Actual, Normal: td.Normal}
	for i := range td.Members {
		e := &td.Members[i]
		var member msr.Element
		var err error
		switch {
		case e.Note != nil:
			member, err = buildNote(e.Line, e.Note, msr.NoteRegular, scale)
		case e.Rest != nil:
			member, err = buildNote(e.Line, e.Rest, msr.NoteRest, scale)
		case e.Chord != nil:
			member, err = buildChord(e.Line, e.Chord, scale)
		default:
			err = &errors.ValidationError{Type: "Tuplet", Field: "members", Reason: "only notes, rests and chords are allowed"}
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", e.Line, err)
		}
		t.Members = append(t.Members, member)
	}
	return t, nil
}

func buildTime(line int, td *Time) (*msr.TimeSignature, error) {
	ts := &msr.TimeSignature{ElementBase: base(line), Symbol: td.Symbol}
	if td.Symbol == msr.TimeSymbolSenzaMisura {
		return ts, nil
	}
	items := td.Items
	if len(items) == 0 {
		beats, beatType := td.Beats, td.BeatType
		switch {
		case beats != "":
		case td.Symbol == msr.TimeSymbolCommon:
			beats, beatType = "4", 4
		case td.Symbol == msr.TimeSymbolCut:
			beats, beatType = "2", 2
		}
		items = []TimeItem{{Beats: beats, BeatType: beatType}}
	}
	for _, item := range items {
		beats, err := parseBeats(item.Beats)
		if err != nil {
			return nil, err
		}
		ts.Items = append(ts.Items, msr.TimeItem{Beats: beats, BeatType: item.BeatType})
	}
	return ts, nil
}

func buildHarmony(line int, hd *Harmony) (*msr.Harmony, error) {
	if hd.Duration.Sign() < 0 {
		return nil, &errors.ValidationError{Type: "Harmony", Field: "duration", Reason: "must not be negative", Value: hd.Duration}
	}
	root, err := ParseRoot(hd.Root)
	if err != nil {
		return nil, err
	}
	h := &msr.Harmony{
		ElementBase: base(line),
		Root:        root,
		Kind:        hd.Kind,
		Text:        hd.Text,
		Duration:    hd.Duration,
	}
	if h.Kind == "" {
		h.Kind = msr.HarmonyMajor
	}
	if hd.Bass != "" {
		bass, err := ParseRoot(hd.Bass)
		if err != nil {
			return nil, err
		}
		h.Bass = &bass
	}
	return h, nil
}

func buildFiguredBass(line int, fd *Figured) (*msr.FiguredBass, error) {
	if fd.Duration.Sign() < 0 {
		return nil, &errors.ValidationError{Type: "FiguredBass", Field: "duration", Reason: "must not be negative", Value: fd.Duration}
	}
	f := &msr.FiguredBass{
		ElementBase: base(line),
		Parentheses: fd.Parentheses,
		Duration:    fd.Duration,
	}
	for _, s := range fd.Figures {
		fig, err := ParseFigure(s)
		if err != nil {
			return nil, err
		}
		f.Figures = append(f.Figures, fig)
	}
	return f, nil
}
