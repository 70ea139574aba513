package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linedash/internal/errors"
)

func universe() Selection {
	return Selection{
		"OPERADORA": NewSet("CLARO", "TIM", "VIVO"),
		"AGOSTO":    NewSet("Em uso", "Sem uso"),
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := universe()
	cp := orig.Clone()
	delete(cp["OPERADORA"], "VIVO")

	assert.True(t, orig.IsSelected("OPERADORA", "VIVO"))
	assert.False(t, cp.IsSelected("OPERADORA", "VIVO"))
}

func TestWithReplacesOneColumn(t *testing.T) {
	sel := universe().With("AGOSTO", "Sem uso")

	assert.Equal(t, []string{"Sem uso"}, sel.Values("AGOSTO"))
	assert.Equal(t, []string{"CLARO", "TIM", "VIVO"}, sel.Values("OPERADORA"))
	assert.Equal(t, []string{"AGOSTO", "OPERADORA"}, sel.Columns())
}

func TestRestrictDropsUnknownValuesAndColumns(t *testing.T) {
	posted := Selection{
		"OPERADORA": NewSet("VIVO", "OI"),
		"BOGUS":     NewSet("x"),
	}
	got := posted.Restrict(universe())

	assert.Equal(t, []string{"VIVO"}, got.Values("OPERADORA"))
	_, hasBogus := got["BOGUS"]
	assert.False(t, hasBogus)
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := Selection{"OPERADORA": NewSet("VIVO", "TIM"), "AGOSTO": NewSet("Sem uso")}
	b := Selection{"AGOSTO": NewSet("Sem uso"), "OPERADORA": NewSet("TIM", "VIVO")}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), a.With("AGOSTO").Fingerprint())
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		column   string
		expected []string
	}{
		{"single value", []string{"OPERADORA=VIVO"}, "OPERADORA", []string{"VIVO"}},
		{"comma list trimmed", []string{"OPERADORA= VIVO , TIM"}, "OPERADORA", []string{"TIM", "VIVO"}},
		{"repeated column accumulates", []string{"OPERADORA=VIVO", "OPERADORA=CLARO"}, "OPERADORA", []string{"CLARO", "VIVO"}},
		{"empty assignment selects nothing", []string{"AGOSTO="}, "AGOSTO", []string{}},
		{"untouched column keeps base", []string{"OPERADORA=VIVO"}, "AGOSTO", []string{"Em uso", "Sem uso"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := ParseAssignments(universe(), tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sel.Values(tt.column))
		})
	}
}

func TestParseAssignmentsRejectsMalformed(t *testing.T) {
	for _, arg := range []string{"OPERADORA", "=VIVO", ""} {
		_, err := ParseAssignments(universe(), []string{arg})
		require.Error(t, err, arg)
		assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	}
}
