package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCategory(t *testing.T) {
	cases := map[string]string{
		"fotógrafo":    "FOTOGRAFO",
		"Música":       "MUSICA",
		"catering":     "CATERING",
		"  decoración ": "DECORACION",
		"":             "OTROS",
		"¡¡??":         "OTROS",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizeCategory(in), in)
	}
}

func TestGuessCategory(t *testing.T) {
	cases := map[string]string{
		"Visita a la finca":      "LUGAR",
		"Sesión de fotos":        "FOTOGRAFO",
		"Prueba del DJ":          "MUSICA",
		"Prueba del vestido":     "VESTUARIO",
		"Degustación catering":   "CATERING",
		"Reunión sin pista":      "OTROS",
	}
	for in, want := range cases {
		require.Equal(t, want, GuessCategory(in), in)
	}
}
