package msr

import (
	"github.com/divVerent/msrconverser/internal/errors"
)

func enumString[T ~int](names []string, v T) string {
	if v < 0 || int(v) >= len(names) {
		return "invalid"
	}
	return names[v]
}

func parseEnum[T ~int](typ string, names []string, s string) (T, error) {
	for i, name := range names {
		if name == s {
			return T(i), nil
		}
	}
	return 0, &errors.ParseError{Type: typ, Value: s}
}

// MeasureKind is the classification of a finalized measure.
type MeasureKind int

const (
	KindUnknown MeasureKind = iota
	KindRegular
	KindAnacrusis
	KindIncompleteStandalone
	KindIncompleteLastMeasure
	KindIncompleteLastInRepeatCommonPart
	KindIncompleteLastInRepeatHookedEnding
	KindIncompleteLastInRepeatHooklessEnding
	KindIncompleteNextAfterCommonPart
	KindIncompleteNextAfterHookedEnding
	KindIncompleteNextAfterHooklessEnding
	KindOverflowing
	KindCadenza
	KindMusicallyEmpty
)

var measureKindNames = []string{
	KindUnknown:                              "unknown",
	KindRegular:                              "regular",
	KindAnacrusis:                            "anacrusis",
	KindIncompleteStandalone:                 "incomplete-standalone",
	KindIncompleteLastMeasure:                "incomplete-last-measure",
	KindIncompleteLastInRepeatCommonPart:     "incomplete-last-in-repeat-common-part",
	KindIncompleteLastInRepeatHookedEnding:   "incomplete-last-in-repeat-hooked-ending",
	KindIncompleteLastInRepeatHooklessEnding: "incomplete-last-in-repeat-hookless-ending",
	KindIncompleteNextAfterCommonPart:        "incomplete-next-after-common-part",
	KindIncompleteNextAfterHookedEnding:      "incomplete-next-after-hooked-ending",
	KindIncompleteNextAfterHooklessEnding:    "incomplete-next-after-hookless-ending",
	KindOverflowing:                          "overflowing",
	KindCadenza:                              "cadenza",
	KindMusicallyEmpty:                       "musically-empty",
}

func (k MeasureKind) String() string {
	return enumString(measureKindNames, k)
}

func ParseMeasureKind(s string) (MeasureKind, error) {
	return parseEnum[MeasureKind]("MeasureKind", measureKindNames, s)
}

func (k MeasureKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MeasureKind) UnmarshalText(text []byte) error {
	v, err := ParseMeasureKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// IsIncomplete reports whether k is one of the incomplete kinds.
func (k MeasureKind) IsIncomplete() bool {
	return k >= KindIncompleteStandalone && k <= KindIncompleteNextAfterHooklessEnding
}

// RepeatContextKind tells where in a repeat structure a measure is.
type RepeatContextKind int

const (
	RepeatContextUnknown RepeatContextKind = iota
	RepeatContextNone
	RepeatContextCommonPartLastMeasure
	RepeatContextHookedEndingLastMeasure
	RepeatContextHooklessEndingLastMeasure
	RepeatContextNextAfterCommonPart
	RepeatContextNextAfterHookedEnding
	RepeatContextNextAfterHooklessEnding
)

var repeatContextNames = []string{
	RepeatContextUnknown:                   "unknown",
	RepeatContextNone:                      "none",
	RepeatContextCommonPartLastMeasure:     "common-part-last-measure",
	RepeatContextHookedEndingLastMeasure:   "hooked-ending-last-measure",
	RepeatContextHooklessEndingLastMeasure: "hookless-ending-last-measure",
	RepeatContextNextAfterCommonPart:       "next-after-common-part",
	RepeatContextNextAfterHookedEnding:     "next-after-hooked-ending",
	RepeatContextNextAfterHooklessEnding:   "next-after-hookless-ending",
}

func (k RepeatContextKind) String() string {
	return enumString(repeatContextNames, k)
}

func ParseRepeatContextKind(s string) (RepeatContextKind, error) {
	return parseEnum[RepeatContextKind]("RepeatContextKind", repeatContextNames, s)
}

func (k RepeatContextKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RepeatContextKind) UnmarshalText(text []byte) error {
	v, err := ParseRepeatContextKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// incompleteKind maps the repeat context of an incomplete measure to its
// kind.
var incompleteKind = map[RepeatContextKind]MeasureKind{
	RepeatContextUnknown:                   KindIncompleteStandalone,
	RepeatContextNone:                      KindIncompleteStandalone,
	RepeatContextCommonPartLastMeasure:     KindIncompleteLastInRepeatCommonPart,
	RepeatContextHookedEndingLastMeasure:   KindIncompleteLastInRepeatHookedEnding,
	RepeatContextHooklessEndingLastMeasure: KindIncompleteLastInRepeatHooklessEnding,
	RepeatContextNextAfterCommonPart:       KindIncompleteNextAfterCommonPart,
	RepeatContextNextAfterHookedEnding:     KindIncompleteNextAfterHookedEnding,
	RepeatContextNextAfterHooklessEnding:   KindIncompleteNextAfterHooklessEnding,
}

// EndRegularKind tells whether a measure ends on a regular measure boundary.
type EndRegularKind int

const (
	EndRegularUnknown EndRegularKind = iota
	EndRegularYes
	EndRegularNo
)

var endRegularNames = []string{
	EndRegularUnknown: "unknown",
	EndRegularYes:     "yes",
	EndRegularNo:      "no",
}

func (k EndRegularKind) String() string {
	return enumString(endRegularNames, k)
}

// VoiceKind selects how the measures of a voice are finalized.
type VoiceKind int

const (
	VoiceRegular VoiceKind = iota
	VoiceHarmonies
	VoiceFiguredBass
	VoiceDynamics
)

var voiceKindNames = []string{
	VoiceRegular:     "regular",
	VoiceHarmonies:   "harmonies",
	VoiceFiguredBass: "figured-bass",
	VoiceDynamics:    "dynamics",
}

func (k VoiceKind) String() string {
	return enumString(voiceKindNames, k)
}

func ParseVoiceKind(s string) (VoiceKind, error) {
	return parseEnum[VoiceKind]("VoiceKind", voiceKindNames, s)
}

func (k VoiceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *VoiceKind) UnmarshalText(text []byte) error {
	v, err := ParseVoiceKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// RepeatPhase is set on a voice right after a repeat component ends. It is
// cleared once the next measure has been classified.
type RepeatPhase int

const (
	RepeatPhaseNone RepeatPhase = iota
	RepeatPhaseAfterCommonPart
	RepeatPhaseAfterHookedEnding
	RepeatPhaseAfterHooklessEnding
)

var repeatPhaseNames = []string{
	RepeatPhaseNone:                "none",
	RepeatPhaseAfterCommonPart:     "after-common-part",
	RepeatPhaseAfterHookedEnding:   "after-hooked-ending",
	RepeatPhaseAfterHooklessEnding: "after-hookless-ending",
}

func (p RepeatPhase) String() string {
	return enumString(repeatPhaseNames, p)
}

func ParseRepeatPhase(s string) (RepeatPhase, error) {
	return parseEnum[RepeatPhase]("RepeatPhase", repeatPhaseNames, s)
}

func (p RepeatPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *RepeatPhase) UnmarshalText(text []byte) error {
	v, err := ParseRepeatPhase(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}
