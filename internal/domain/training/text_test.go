package training_test

import (
	"testing"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

func TestFold(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Título de la Capacitación": "titulo de la capacitacion",
		"  User's  ID ":             "user s id",
		"Fecha_de_Finalización":     "fecha de finalizacion",
		"":                          "",
	}
	for input, want := range cases {
		if got := domain.Fold(input); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", input, got, want)
		}
	}
}
