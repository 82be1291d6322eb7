package forms_test

import (
	"testing"

	"opregistro/internal/forms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *float64
	}{
		{"inteiro", "150", ptr(150.0)},
		{"vírgula decimal", "12,5", ptr(12.5)},
		{"milhar e decimal", "1.250,75", ptr(1250.75)},
		{"espaços", "  42 ", ptr(42.0)},
		{"vazio", "", nil},
		{"só espaços", "   ", nil},
		{"ilegível", "abc", nil},
		{"misto ilegível", "12x5", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := forms.ToFloat(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestToInt(t *testing.T) {
	got := forms.ToInt("1.234")
	require.NotNil(t, got)
	// ponto é separador de milhar, não decimal
	assert.Equal(t, 1234, *got)

	got = forms.ToInt("12,9")
	require.NotNil(t, got)
	assert.Equal(t, 12, *got)

	assert.Nil(t, forms.ToInt(""))
	assert.Nil(t, forms.ToInt("n/a"))
}

func TestOrZero(t *testing.T) {
	assert.Equal(t, 0.0, forms.FloatOrZero(""))
	assert.Equal(t, 2.5, forms.FloatOrZero("2,5"))
	assert.Equal(t, 0, forms.IntOrZero("xyz"))
	assert.Equal(t, 7, forms.IntOrZero("7"))
}

func ptr(f float64) *float64 { return &f }
