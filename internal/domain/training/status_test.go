package training_test

import (
	"errors"
	"testing"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

func TestNormalizeStatusVariants(t *testing.T) {
	t.Parallel()

	cases := map[string]domain.Status{
		"No iniciado":           domain.StatusNotStarted,
		"  NOT STARTED ":        domain.StatusNotStarted,
		"Pending":               domain.StatusNotStarted,
		"En proceso":            domain.StatusInProgress,
		"Progreso":              domain.StatusInProgress,
		"In Progress":           domain.StatusInProgress,
		"Registrado":            domain.StatusRegistered,
		"Registered":            domain.StatusRegistered,
		"Terminado":             domain.StatusCompleted,
		"Completado":            domain.StatusCompleted,
		"Completed":             domain.StatusCompleted,
		"Completed - Past Due":  domain.StatusCompleted,
		"Fallido":               domain.StatusFailed,
		"Failed":                domain.StatusFailed,
		"en  proceso (vencido)": domain.StatusInProgress,
	}

	for raw, want := range cases {
		got, err := domain.NormalizeStatus(raw)
		if err != nil {
			t.Fatalf("NormalizeStatus(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("NormalizeStatus(%q) = %q, want %q", raw, got, want)
		}
		if !got.IsValid() {
			t.Fatalf("status %q should be valid", got)
		}
	}
}

func TestNormalizeStatusUnknown(t *testing.T) {
	t.Parallel()

	_, err := domain.NormalizeStatus("Withdrawn")
	if !errors.Is(err, domain.ErrUnknownStatus) {
		t.Fatalf("expected ErrUnknownStatus, got %v", err)
	}

	_, err = domain.NormalizeStatus("   ")
	if !errors.Is(err, domain.ErrMissingStatus) {
		t.Fatalf("expected ErrMissingStatus, got %v", err)
	}
}

func TestStatusIsValid(t *testing.T) {
	t.Parallel()

	if domain.Status("Completado").IsValid() {
		t.Fatal("aliases must not be stored as statuses")
	}
}
