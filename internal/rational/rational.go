// Package rational implements exact fractions as used for whole notes
// durations and positions in measures.
//
// A Rational is always kept in lowest terms with a strictly positive
// denominator; zero is 0/1. The zero value of the type is a valid 0/1.
package rational

import (
	"cmp"
	"math"
	"math/bits"
	"regexp"
	"strconv"

	"github.com/divVerent/msrconverser/internal/errors"
)

// Rational is an exact fraction num/den.
type Rational struct {
	num int64
	// den is 0 only in the zero value, which reads as 1.
	den int64
}

// Zero is 0/1.
var Zero = Rational{num: 0, den: 1}

// One is 1/1.
var One = Rational{num: 1, den: 1}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// gcd computes the greatest common divisor of |a| and |b| with Euclid's
// algorithm. gcd(0, 0) is 1 so that it can always be divided by.
func gcd(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// uabs is |x| as unsigned, also for math.MinInt64.
func uabs(x int64) uint64 {
	if x < 0 {
		return uint64(-(x + 1)) + 1
	}
	return uint64(x)
}

// mul returns a*b. It panics with an InternalError if that overflows.
func mul(op string, a, b int64) int64 {
	hi, lo := bits.Mul64(uabs(a), uabs(b))
	neg := (a < 0) != (b < 0)
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	if hi != 0 || lo > limit {
		panic(errors.Internalf(0, op, "%d * %d overflows int64", a, b))
	}
	if neg {
		return -int64(lo-1) - 1
	}
	return int64(lo)
}

// add returns a+b. It panics with an InternalError if that overflows.
func add(op string, a, b int64) int64 {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		panic(errors.Internalf(0, op, "%d + %d overflows int64", a, b))
	}
	return sum
}

func lcm(a, b int64) int64 {
	return mul("lcm", a/gcd(a, b), b)
}

// reduce builds the canonical form of num/den. den must not be zero.
func reduce(num, den int64) Rational {
	if num == 0 {
		return Zero
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd(num, den)
	return Rational{num: num / g, den: den / g}
}

// New returns num/den in canonical form. The denominator must be positive.
func New(num, den int64) (Rational, error) {
	if den <= 0 {
		return Zero, &errors.ValidationError{
			Type:   "Rational",
			Field:  "Den",
			Reason: "must be positive",
			Value:  den,
		}
	}
	return reduce(num, den), nil
}

// MustNew is like New but panics on an invalid denominator.
func MustNew(num, den int64) Rational {
	r, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

// FromInt returns n/1.
func FromInt(n int64) Rational {
	return Rational{num: n, den: 1}
}

var rationalRE = regexp.MustCompile(`^([-+]?\d+)(?:/(\d+))?$`)

// Parse reads the "N/D" form produced by String. A bare integer "N" is
// accepted as N/1.
func Parse(s string) (Rational, error) {
	m := rationalRE.FindStringSubmatch(s)
	if m == nil {
		return Zero, &errors.ParseError{Type: "Rational", Value: s}
	}
	num, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Zero, &errors.ParseError{Type: "Rational", Value: s}
	}
	if m[2] == "" {
		return FromInt(num), nil
	}
	den, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Zero, &errors.ParseError{Type: "Rational", Value: s}
	}
	return New(num, den)
}

// MustParse is like Parse but panics on malformed input.
func MustParse(s string) Rational {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Num returns the numerator.
func (r Rational) Num() int64 {
	return r.num
}

// Den returns the denominator, which is always positive.
func (r Rational) Den() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

func (r Rational) Add(o Rational) Rational {
	l := lcm(r.Den(), o.Den())
	return reduce(add("Rational.Add", mul("Rational.Add", r.num, l/r.Den()), mul("Rational.Add", o.num, l/o.Den())), l)
}

func (r Rational) Sub(o Rational) Rational {
	return r.Add(o.Neg())
}

func (r Rational) Mul(o Rational) Rational {
	// Cross-reduce first to keep the intermediate products small.
	g1 := gcd(r.num, o.Den())
	g2 := gcd(o.num, r.Den())
	return reduce(mul("Rational.Mul", r.num/g1, o.num/g2), mul("Rational.Mul", r.Den()/g2, o.Den()/g1))
}

// Div divides r by o. It panics if o is zero, like integer division does.
func (r Rational) Div(o Rational) Rational {
	return r.Mul(o.Inverse())
}

func (r Rational) MulInt(n int64) Rational {
	return r.Mul(FromInt(n))
}

// DivInt divides by n. It panics if n is zero.
func (r Rational) DivInt(n int64) Rational {
	return r.Div(FromInt(n))
}

func (r Rational) Neg() Rational {
	return Rational{num: -r.num, den: r.Den()}
}

// Inverse returns 1/r. It panics if r is zero.
func (r Rational) Inverse() Rational {
	if r.num == 0 {
		panic(errors.Internalf(0, "Rational.Inverse", "zero has no inverse"))
	}
	return reduce(r.Den(), r.num)
}

// Cmp returns -1, 0 or +1 depending on whether r is less than, equal to or
// greater than o. The comparison cross-multiplies and never converts to
// floating point; the products are exact in 128 bits.
func (r Rational) Cmp(o Rational) int {
	rs, os := r.Sign(), o.Sign()
	if rs != os || rs == 0 {
		return cmp.Compare(rs, os)
	}
	ahi, alo := bits.Mul64(uabs(r.num), uint64(o.Den()))
	bhi, blo := bits.Mul64(uabs(o.num), uint64(r.Den()))
	c := cmp.Compare(ahi, bhi)
	if c == 0 {
		c = cmp.Compare(alo, blo)
	}
	return c * rs
}

func (r Rational) Less(o Rational) bool {
	return r.Cmp(o) < 0
}

func (r Rational) Greater(o Rational) bool {
	return r.Cmp(o) > 0
}

func (r Rational) Equal(o Rational) bool {
	return r.num == o.num && r.Den() == o.Den()
}

func (r Rational) IsZero() bool {
	return r.num == 0
}

// Sign returns -1, 0 or +1.
func (r Rational) Sign() int {
	switch {
	case r.num < 0:
		return -1
	case r.num > 0:
		return +1
	}
	return 0
}

// Float64 is meant for display and estimates only.
func (r Rational) Float64() float64 {
	return float64(r.num) / float64(r.Den())
}

// String returns the "N/D" form.
func (r Rational) String() string {
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.Den(), 10)
}

// MarshalText implements encoding.TextMarshaler. JSON and YAML use it too.
func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rational) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
