package diag_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/divVerent/msrconverser/internal/diag"
)

func TestParseTraceFlags(t *testing.T) {
	flags, err := diag.ParseTraceFlags([]string{"measures", "positions"})
	require.NoError(t, err)
	assert.Equal(t, diag.TraceMeasures|diag.TracePositions, flags)

	all, err := diag.ParseTraceFlags([]string{"all"})
	require.NoError(t, err)
	assert.NotZero(t, all&diag.TraceHarmonies)
	assert.NotZero(t, all&diag.TraceMIDI)

	_, err = diag.ParseTraceFlags([]string{"voices"})
	assert.Error(t, err)
}

func TestWarnCollects(t *testing.T) {
	var seen []diag.Diagnostic
	l := diag.New(diag.Options{
		Language: "en",
		Sink:     func(d diag.Diagnostic) { seen = append(seen, d) },
	})
	l.Warn(7, diag.MsgOverflowing, "3", "5/4", "1/1")
	l.Warn(0, diag.MsgCloneZeroCapacity, "4")

	require.Len(t, l.Diagnostics(), 2)
	assert.Equal(t, l.Diagnostics(), seen)
	assert.Equal(t, "measure 3 holds 5/4 whole notes, more than its 1/1", seen[0].Text)
	assert.Equal(t, "line 7: measure 3 holds 5/4 whole notes, more than its 1/1", seen[0].String())
	assert.Equal(t, "clone of measure 4 has no capacity", seen[1].String())
	assert.Equal(t, 1, l.Count(diag.MsgOverflowing))
	assert.Equal(t, 0, l.Count(diag.MsgOvershoot))
}

func TestWarnTranslates(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"fr", "la copie de la mesure 12 n'a pas de capacité"},
		{"de", "die Kopie von Takt 12 hat keine Kapazität"},
		{"it", "la copia della battuta 12 non ha capacità"},
		{"en", "clone of measure 12 has no capacity"},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			l := diag.New(diag.Options{Language: tt.lang, Sink: func(diag.Diagnostic) {}})
			l.Warn(0, diag.MsgCloneZeroCapacity, "12")
			assert.Equal(t, tt.want, l.Diagnostics()[0].Text)
		})
	}
}

func TestLanguage(t *testing.T) {
	assert.Equal(t, language.French, diag.Language("fr-CA"))
	assert.Equal(t, language.German, diag.Language("de-AT"))
	assert.Equal(t, language.English, diag.Language("ja"))
}

func TestStrictAndTracing(t *testing.T) {
	l := diag.New(diag.Options{Language: "en", Strict: true, Trace: diag.TraceClones, Sink: func(diag.Diagnostic) {}})
	assert.True(t, l.Strict())
	assert.True(t, l.Tracing(diag.TraceClones))
	assert.True(t, l.Tracing(diag.TraceClones|diag.TraceMeasures))
	assert.False(t, l.Tracing(diag.TraceMeasures))
	assert.False(t, diag.Discard().Strict())
}

func TestIndenter(t *testing.T) {
	var i diag.Indenter
	var buf bytes.Buffer
	require.NoError(t, i.Fprintf(&buf, "voice %d", 1))
	i.Inc()
	require.NoError(t, i.Fprintf(&buf, "measure %s", "1"))
	i.Inc()
	require.NoError(t, i.Fprintf(&buf, "note"))
	i.Dec()
	i.Dec()
	i.Dec()
	assert.Equal(t, 0, i.Level())
	assert.Equal(t, "voice 1\n  measure 1\n    note\n", buf.String())
}
