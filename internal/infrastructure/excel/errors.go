package excel

import (
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

// All parse errors wrap domain.ErrUnreadableWorkbook.
var (
	ErrInvalidWorkbook = fmt.Errorf("%w: invalid xlsx workbook", domain.ErrUnreadableWorkbook)
	ErrSheetNotFound   = fmt.Errorf("%w: sheet not found", domain.ErrUnreadableWorkbook)
	ErrNoHeaderRow     = fmt.Errorf("%w: no header row with a user id column", domain.ErrUnreadableWorkbook)
)

// MissingColumnsError reports the required columns a sheet lacks for an import kind.
type MissingColumnsError struct {
	SheetName string
	Kind      domain.ImportKind
	Fields    []domain.Field
}

func (e *MissingColumnsError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		names = append(names, string(field))
	}
	return fmt.Sprintf("sheet %q is missing columns for %s import: %s", e.SheetName, e.Kind, strings.Join(names, ", "))
}

func (e *MissingColumnsError) Unwrap() error { return domain.ErrUnreadableWorkbook }
