package training_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

func TestImportWorkbookSuccess(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	importer := &fakeBulkImporter{result: app.ImportChunkResult{ImportedCount: 1, UpdatedCount: 1}}
	uc := app.NewImportWorkbook(source, &fakeParser{rows: transcriptRows()}, importer, app.ImportWorkbookConfig{})

	out, err := uc.Execute(context.Background(), app.ImportWorkbookInput{SourcePath: "transcript.xlsx"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if source.gotPath != "transcript.xlsx" {
		t.Fatalf("unexpected source path: %s", source.gotPath)
	}
	if err := uuid.Validate(out.RunID); err != nil {
		t.Fatalf("expected uuid run id, got %q", out.RunID)
	}
	if importer.gotRun != out.RunID {
		t.Fatalf("importer got run %q, want %q", importer.gotRun, out.RunID)
	}
	if out.Kind != domain.KindTranscript {
		t.Fatalf("unexpected kind: %s", out.Kind)
	}
	if importer.calls != 1 || importer.rows != 2 {
		t.Fatalf("expected one chunk with 2 records, got %d calls / %d rows", importer.calls, importer.rows)
	}
	if out.Summary.ProcessedCount != 3 || out.Summary.FailedCount != 1 || out.Summary.UpdatedCount != 1 {
		t.Fatalf("unexpected summary: %+v", out.Summary)
	}
}

func TestImportWorkbookParseError(t *testing.T) {
	t.Parallel()

	parseErr := errors.New("no header row")
	uc := app.NewImportWorkbook(&fakeSource{}, &fakeParser{err: parseErr}, &fakeBulkImporter{}, app.ImportWorkbookConfig{})

	_, err := uc.Execute(context.Background(), app.ImportWorkbookInput{SourcePath: "transcript.xlsx"})
	if !errors.Is(err, parseErr) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestImportWorkbookInvalidInput(t *testing.T) {
	t.Parallel()

	uc := app.NewImportWorkbook(&fakeSource{}, &fakeParser{}, &fakeBulkImporter{}, app.ImportWorkbookConfig{})

	if _, err := uc.Execute(context.Background(), app.ImportWorkbookInput{SourcePath: "x.txt"}); !errors.Is(err, app.ErrInvalidImportSource) {
		t.Fatalf("expected ErrInvalidImportSource, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), app.ImportWorkbookInput{SourcePath: "x.xlsx", Kind: "nope"}); !errors.Is(err, app.ErrInvalidImportKind) {
		t.Fatalf("expected ErrInvalidImportKind, got %v", err)
	}
}
