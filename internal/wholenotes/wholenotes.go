// Package wholenotes provides the two uses of whole-notes fractions: a
// Duration is a length, a Position is an offset from the start of a measure.
//
// Positions can be advanced by durations and subtracted from each other, but
// two positions can not be added.
package wholenotes

import (
	"math"

	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/rational"
)

// Duration is a length in whole notes. A quarter note is 1/4.
type Duration struct {
	r rational.Rational
}

// Position is an offset in whole notes from the start of a measure.
type Position struct {
	r rational.Rational
}

var (
	// Start is the position of the beginning of a measure.
	Start = Position{}

	// Unbounded is the capacity of senza misura (cadenza) measures.
	Unbounded = Duration{rational.FromInt(math.MaxInt32)}
)

// DurationOf wraps a rational.
func DurationOf(r rational.Rational) Duration {
	return Duration{r}
}

// NewDuration returns num/den whole notes.
func NewDuration(num, den int64) (Duration, error) {
	r, err := rational.New(num, den)
	if err != nil {
		return Duration{}, err
	}
	return Duration{r}, nil
}

// MustDuration is like NewDuration but panics on an invalid denominator.
func MustDuration(num, den int64) Duration {
	return Duration{rational.MustNew(num, den)}
}

// ParseDuration reads the "N/D" form.
func ParseDuration(s string) (Duration, error) {
	r, err := rational.Parse(s)
	if err != nil {
		return Duration{}, err
	}
	return Duration{r}, nil
}

// PositionOf returns the position r whole notes after the measure start.
// Negative values are rejected.
func PositionOf(r rational.Rational) (Position, error) {
	if r.Sign() < 0 {
		return Position{}, &errors.ValidationError{
			Type:   "Position",
			Reason: "must not be negative",
			Value:  r,
		}
	}
	return Position{r}, nil
}

// MustPosition returns the position num/den and panics if it is invalid.
func MustPosition(num, den int64) Position {
	p, err := PositionOf(rational.MustNew(num, den))
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePosition reads the "N/D" form.
func ParsePosition(s string) (Position, error) {
	r, err := rational.Parse(s)
	if err != nil {
		return Position{}, err
	}
	return PositionOf(r)
}

func (d Duration) Rational() rational.Rational {
	return d.r
}

func (d Duration) Add(o Duration) Duration {
	return Duration{d.r.Add(o.r)}
}

func (d Duration) Sub(o Duration) Duration {
	return Duration{d.r.Sub(o.r)}
}

func (d Duration) Neg() Duration {
	return Duration{d.r.Neg()}
}

// Scale multiplies the duration, e.g. by a tuplet factor.
func (d Duration) Scale(f rational.Rational) Duration {
	return Duration{d.r.Mul(f)}
}

// Ratio returns d/o. It panics if o is zero.
func (d Duration) Ratio(o Duration) rational.Rational {
	return d.r.Div(o.r)
}

func (d Duration) Cmp(o Duration) int {
	return d.r.Cmp(o.r)
}

func (d Duration) Less(o Duration) bool {
	return d.r.Less(o.r)
}

func (d Duration) Greater(o Duration) bool {
	return d.r.Greater(o.r)
}

func (d Duration) Equal(o Duration) bool {
	return d.r.Equal(o.r)
}

func (d Duration) IsZero() bool {
	return d.r.IsZero()
}

func (d Duration) Sign() int {
	return d.r.Sign()
}

// IsUnbounded reports whether d is the cadenza capacity.
func (d Duration) IsUnbounded() bool {
	return d.r.Equal(Unbounded.r)
}

func (d Duration) String() string {
	return d.r.String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return d.r.MarshalText()
}

func (d *Duration) UnmarshalText(text []byte) error {
	return d.r.UnmarshalText(text)
}

func (p Position) Rational() rational.Rational {
	return p.r
}

// Add returns the position d after p.
func (p Position) Add(d Duration) Position {
	return Position{p.r.Add(d.r)}
}

// Sub returns the distance from o to p, negative if p is before o.
func (p Position) Sub(o Position) Duration {
	return Duration{p.r.Sub(o.r)}
}

// Offset returns the distance from the measure start to p.
func (p Position) Offset() Duration {
	return Duration{p.r}
}

func (p Position) Cmp(o Position) int {
	return p.r.Cmp(o.r)
}

func (p Position) Less(o Position) bool {
	return p.r.Less(o.r)
}

func (p Position) Greater(o Position) bool {
	return p.r.Greater(o.r)
}

func (p Position) Equal(o Position) bool {
	return p.r.Equal(o.r)
}

// Reaches compares the offset of p against a measure capacity.
func (p Position) Reaches(capacity Duration) int {
	return p.r.Cmp(capacity.r)
}

func (p Position) IsStart() bool {
	return p.r.IsZero()
}

func (p Position) String() string {
	return p.r.String()
}

func (p Position) MarshalText() ([]byte, error) {
	return p.r.MarshalText()
}

func (p *Position) UnmarshalText(text []byte) error {
	v, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
