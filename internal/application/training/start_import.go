package training

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
}

type StartImportInput struct {
	SourcePath string
	Kind       string
}

type StartImportOutput struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type StartImport interface {
	Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error)
}

type importJobEnqueuer interface {
	Enqueue(ctx context.Context, sourcePath string, kind domain.ImportKind) (string, error)
}

type startImport struct {
	importJobRepo importJobEnqueuer
}

func NewStartImport(importJobRepo importJobEnqueuer) StartImport {
	return &startImport{importJobRepo: importJobRepo}
}

func (uc *startImport) Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	if !IsWorkbookPath(sourcePath) {
		return StartImportOutput{}, ErrInvalidImportSource
	}

	kind, err := domain.ParseImportKind(in.Kind)
	if err != nil {
		return StartImportOutput{}, ErrInvalidImportKind
	}

	jobID, err := uc.importJobRepo.Enqueue(ctx, sourcePath, kind)
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	return StartImportOutput{
		JobID:  jobID,
		Status: domain.JobStatusQueued,
	}, nil
}

func IsWorkbookPath(path string) bool {
	if path == "" {
		return false
	}
	// "~$" prefixes are Office lock files left next to open workbooks.
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return false
	}
	return workbookExtensions[strings.ToLower(filepath.Ext(path))]
}
