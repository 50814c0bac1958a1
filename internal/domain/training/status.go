package training

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusNotStarted Status = "No iniciado"
	StatusInProgress Status = "En proceso"
	StatusRegistered Status = "Registrado"
	StatusCompleted  Status = "Terminado"
	StatusFailed     Status = "Fallido"
)

// Statuses lists the closed set in lifecycle order.
var Statuses = []Status{
	StatusNotStarted,
	StatusRegistered,
	StatusInProgress,
	StatusCompleted,
	StatusFailed,
}

// statusAliases is keyed by Fold output.
var statusAliases = map[string]Status{
	"no iniciado":          StatusNotStarted,
	"sin iniciar":          StatusNotStarted,
	"no comenzado":         StatusNotStarted,
	"pendiente":            StatusNotStarted,
	"not started":          StatusNotStarted,
	"not yet started":      StatusNotStarted,
	"pending":              StatusNotStarted,
	"assigned":             StatusNotStarted,
	"asignado":             StatusNotStarted,
	"en proceso":           StatusInProgress,
	"en progreso":          StatusInProgress,
	"progreso":             StatusInProgress,
	"iniciado":             StatusInProgress,
	"in progress":          StatusInProgress,
	"started":              StatusInProgress,
	"registrado":           StatusRegistered,
	"inscrito":             StatusRegistered,
	"registered":           StatusRegistered,
	"enrolled":             StatusRegistered,
	"approved":             StatusRegistered,
	"terminado":            StatusCompleted,
	"completado":           StatusCompleted,
	"finalizado":           StatusCompleted,
	"aprobado":             StatusCompleted,
	"completed":            StatusCompleted,
	"complete":             StatusCompleted,
	"passed":               StatusCompleted,
	"fallido":              StatusFailed,
	"reprobado":            StatusFailed,
	"no aprobado":          StatusFailed,
	"failed":               StatusFailed,
	"fail":                 StatusFailed,
	"not passed":           StatusFailed,
	"pending completion":   StatusInProgress,
	"completion pending":   StatusInProgress,
	"en espera de aprobar": StatusRegistered,
}

// NormalizeStatus maps an LMS status label onto the closed Status set.
func NormalizeStatus(raw string) (Status, error) {
	key := Fold(raw)
	if key == "" {
		return "", ErrMissingStatus
	}
	if status, ok := statusAliases[key]; ok {
		return status, nil
	}

	// CSOD sometimes appends qualifiers: "Completed - Past Due", "En proceso (vencido)".
	for _, sep := range []string{" past due", " vencido", " overdue", " atrasado"} {
		if trimmed := strings.TrimSuffix(key, sep); trimmed != key {
			if status, ok := statusAliases[trimmed]; ok {
				return status, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, strings.TrimSpace(raw))
}

// IsValid reports whether s belongs to the closed set.
func (s Status) IsValid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}
