package builder

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/msr"
)

var (
	pitchRE  = regexp.MustCompile(`^([A-G])(#*|b*)(-?\d+)$`)
	rootRE   = regexp.MustCompile(`^([A-G])(#*|b*)$`)
	figureRE = regexp.MustCompile(`^(\D*)(\d*)(\D*)$`)
)

func alter(accidentals string) int {
	if strings.HasPrefix(accidentals, "b") {
		return -len(accidentals)
	}
	return len(accidentals)
}

// ParsePitch reads a pitch like "C4", "F#3" or "Bb5".
func ParsePitch(s string) (msr.Pitch, error) {
	m := pitchRE.FindStringSubmatch(s)
	if m == nil {
		return msr.Pitch{}, &errors.ParseError{Type: "Pitch", Value: s}
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return msr.Pitch{}, &errors.ParseError{Type: "Pitch", Value: s}
	}
	return msr.Pitch{Step: m[1], Alter: alter(m[2]), Octave: octave}, nil
}

// ParseRoot reads a pitch class like "C" or "Eb". The octave is left 0.
func ParseRoot(s string) (msr.Pitch, error) {
	m := rootRE.FindStringSubmatch(s)
	if m == nil {
		return msr.Pitch{}, &errors.ParseError{Type: "Root", Value: s}
	}
	return msr.Pitch{Step: m[1], Alter: alter(m[2])}, nil
}

// ParseFigure reads a figure like "6", "#4" or "5+". A lone accidental has
// number 0.
func ParseFigure(s string) (msr.Figure, error) {
	m := figureRE.FindStringSubmatch(s)
	if m == nil || s == "" {
		return msr.Figure{}, &errors.ParseError{Type: "Figure", Value: s}
	}
	f := msr.Figure{Prefix: m[1], Suffix: m[3]}
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return msr.Figure{}, &errors.ParseError{Type: "Figure", Value: s}
		}
		f.Number = n
	}
	return f, nil
}

// parseBeats reads additive beats like "3" or "2+3".
func parseBeats(s string) ([]int, error) {
	var beats []int
	for _, b := range strings.Split(s, "+") {
		n, err := strconv.Atoi(strings.TrimSpace(b))
		if err != nil {
			return nil, &errors.ParseError{Type: "Beats", Value: s}
		}
		beats = append(beats, n)
	}
	return beats, nil
}
