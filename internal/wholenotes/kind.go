package wholenotes

import (
	"github.com/divVerent/msrconverser/internal/errors"
	"github.com/divVerent/msrconverser/internal/rational"
)

// Kind is a graphic note duration, named like the MusicXML <type> element.
type Kind int

const (
	KindUnknown Kind = iota
	Kind1024th
	Kind512th
	Kind256th
	Kind128th
	Kind64th
	Kind32nd
	Kind16th
	KindEighth
	KindQuarter
	KindHalf
	KindWhole
	KindBreve
	KindLong
	KindMaxima
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	Kind1024th:  "1024th",
	Kind512th:   "512th",
	Kind256th:   "256th",
	Kind128th:   "128th",
	Kind64th:    "64th",
	Kind32nd:    "32nd",
	Kind16th:    "16th",
	KindEighth:  "eighth",
	KindQuarter: "quarter",
	KindHalf:    "half",
	KindWhole:   "whole",
	KindBreve:   "breve",
	KindLong:    "long",
	KindMaxima:  "maxima",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind accepts the MusicXML type names.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if k != int(KindUnknown) && name == s {
			return Kind(k), nil
		}
	}
	return KindUnknown, &errors.ParseError{Type: "Kind", Value: s}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Duration returns the undotted length of k. KindWhole is 1/1, each step
// down halves it. KindUnknown has no duration.
func (k Kind) Duration() Duration {
	if k <= KindUnknown || int(k) >= len(kindNames) {
		return Duration{}
	}
	shift := int(k) - int(KindWhole)
	if shift >= 0 {
		return Duration{rational.FromInt(1 << shift)}
	}
	return Duration{rational.MustNew(1, 1<<-shift)}
}

// Dotted returns the length of k with the given number of augmentation
// dots. Each dot adds half of the previous increment.
func Dotted(k Kind, dots int) Duration {
	d := k.Duration()
	inc := d
	for i := 0; i < dots; i++ {
		inc = inc.Scale(rational.MustNew(1, 2))
		d = d.Add(inc)
	}
	return d
}

// KindFromDuration finds the kind and dot count spelling d, if any. Up to
// three dots are tried.
func KindFromDuration(d Duration) (Kind, int, bool) {
	for dots := 0; dots <= 3; dots++ {
		for k := KindMaxima; k > KindUnknown; k-- {
			if Dotted(k, dots).Equal(d) {
				return k, dots, true
			}
		}
	}
	return KindUnknown, 0, false
}
