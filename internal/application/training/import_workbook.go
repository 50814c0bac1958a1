package training

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type ImportWorkbookInput struct {
	SourcePath string
	Kind       string
}

type ImportWorkbookOutput struct {
	RunID   string
	Kind    domain.ImportKind
	Summary domain.ImportSummary
}

// ImportWorkbook runs an import in the caller's goroutine without a job row.
type ImportWorkbook interface {
	Execute(ctx context.Context, in ImportWorkbookInput) (ImportWorkbookOutput, error)
}

type ImportWorkbookConfig struct {
	ChunkSize    int
	PassingScore float64
}

type importWorkbook struct {
	source   ImportSource
	parser   WorkbookParser
	importer importChunker
	cfg      ImportWorkbookConfig
}

func NewImportWorkbook(source ImportSource, parser WorkbookParser, importer importChunker, cfg ImportWorkbookConfig) ImportWorkbook {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	return &importWorkbook{source: source, parser: parser, importer: importer, cfg: cfg}
}

func (uc *importWorkbook) Execute(ctx context.Context, in ImportWorkbookInput) (ImportWorkbookOutput, error) {
	if !IsWorkbookPath(in.SourcePath) {
		return ImportWorkbookOutput{}, ErrInvalidImportSource
	}
	kind, err := domain.ParseImportKind(in.Kind)
	if err != nil {
		return ImportWorkbookOutput{}, ErrInvalidImportKind
	}

	reader, err := uc.source.Open(ctx, in.SourcePath)
	if err != nil {
		return ImportWorkbookOutput{}, fmt.Errorf("open import source: %w", err)
	}
	defer reader.Close()

	rows, err := uc.parser.Parse(ctx, reader, kind)
	if err != nil {
		return ImportWorkbookOutput{}, fmt.Errorf("parse workbook: %w", err)
	}
	defer rows.Close()

	out := ImportWorkbookOutput{RunID: uuid.NewString(), Kind: rows.Kind()}
	run := importRun{
		runID:      out.RunID,
		importer:   uc.importer,
		chunkSize:  uc.cfg.ChunkSize,
		recordOpts: domain.RecordOptions{PassingScore: uc.cfg.PassingScore},
	}

	out.Summary, err = run.execute(ctx, rows)
	if err != nil {
		return out, err
	}
	return out, nil
}
