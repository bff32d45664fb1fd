package msr

import (
	"io"

	"github.com/divVerent/msrconverser/internal/diag"
	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// Dump writes a report of the measures of every voice of s to w.
func Dump(w io.Writer, s *Score) error {
	var ind diag.Indenter
	err := ind.Fprintf(w, "score %q (%v), %d measures", s.Title, s.ID, s.NumberOfMeasures())
	if err != nil {
		return err
	}
	ind.Inc()
	for _, p := range s.Parts() {
		for _, v := range p.Voices() {
			err = dumpVoice(w, &ind, v)
			if err != nil {
				return err
			}
		}
	}
	ind.Dec()
	return nil
}

func dumpVoice(w io.Writer, ind *diag.Indenter, v *Voice) error {
	err := ind.Fprintf(w, "voice %s, %d measures, ends at %v", v.Name(), v.MeasureCount(), v.Position())
	if err != nil {
		return err
	}
	ind.Inc()
	defer ind.Dec()
	return v.ForEachMeasure(func(m *Measure) error {
		err := ind.Fprintf(w, "measure %s: ordinal %d, purist %d, %v, %v of %v, end-regular %v",
			m.Number(), m.Ordinal(), m.PuristNumber(), m.Kind(), m.CurrentPosition(), m.FullMeasureWholeNotes(), m.EndRegular())
		if err != nil {
			return err
		}
		ind.Inc()
		defer ind.Dec()
		return m.ForEachElement(func(e Element, p wholenotes.Position) error {
			return ind.Fprintf(w, "@%v %v", p, e)
		})
	})
}
