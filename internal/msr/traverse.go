package msr

import (
	stderrors "errors"
	"iter"
	"slices"

	"github.com/divVerent/msrconverser/internal/wholenotes"
)

// StopIteration can be returned to return without failure.
var StopIteration = stderrors.New("msr: StopIteration")

// Elements yields the elements of the measure with their positions, in
// ascending position order. Elements at the same position keep their list
// order.
func (m *Measure) Elements() iter.Seq2[Element, wholenotes.Position] {
	return func(yield func(Element, wholenotes.Position) bool) {
		sorted := slices.Clone(m.elements)
		slices.SortStableFunc(sorted, func(a, b Element) int {
			return a.Position().Cmp(b.Position())
		})
		for _, e := range sorted {
			if !yield(e, e.Position()) {
				return
			}
		}
	}
}

// ForEachElement runs yield for each element in position order.
func (m *Measure) ForEachElement(yield func(e Element, p wholenotes.Position) error) error {
	for e, p := range m.Elements() {
		err := yield(e, p)
		if stderrors.Is(err, StopIteration) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Measures yields the measures of the voice, segment by segment.
func (v *Voice) Measures() iter.Seq[*Measure] {
	return func(yield func(*Measure) bool) {
		for _, seg := range v.Segments() {
			for _, m := range seg.Measures() {
				if !yield(m) {
					return
				}
			}
		}
	}
}

// ForEachMeasure runs yield for each measure of the voice in order.
func (v *Voice) ForEachMeasure(yield func(m *Measure) error) error {
	for m := range v.Measures() {
		err := yield(m)
		if stderrors.Is(err, StopIteration) {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}
