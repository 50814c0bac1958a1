package training

import (
	"context"
	"fmt"
	"math"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type ModuleSummaryOutput struct {
	ModuleID          int              `json:"module_id"`
	ModuleName        string           `json:"module_name"`
	Total             int64            `json:"total"`
	CountsByStatus    map[string]int64 `json:"counts_by_status"`
	AveragePercentage float64          `json:"average_percentage"`
	CompletionRate    float64          `json:"completion_rate"`
}

type GetModuleSummaryOutput struct {
	Modules []ModuleSummaryOutput `json:"modules"`
}

type GetModuleSummary interface {
	Execute(ctx context.Context) (GetModuleSummaryOutput, error)
}

type moduleSummaryReader interface {
	ModuleSummary(ctx context.Context) ([]domain.ModuleSummary, error)
}

type getModuleSummary struct {
	repo moduleSummaryReader
}

func NewGetModuleSummary(repo moduleSummaryReader) GetModuleSummary {
	return &getModuleSummary{repo: repo}
}

func (uc *getModuleSummary) Execute(ctx context.Context) (GetModuleSummaryOutput, error) {
	summaries, err := uc.repo.ModuleSummary(ctx)
	if err != nil {
		return GetModuleSummaryOutput{}, fmt.Errorf("%w: %v", ErrGetModuleSummary, err)
	}

	out := GetModuleSummaryOutput{Modules: make([]ModuleSummaryOutput, 0, len(summaries))}
	for _, summary := range summaries {
		// Every status key is present so dashboards can chart zeros.
		counts := make(map[string]int64, len(domain.Statuses))
		for _, status := range domain.Statuses {
			counts[string(status)] = summary.CountsByStatus[status]
		}

		out.Modules = append(out.Modules, ModuleSummaryOutput{
			ModuleID:          summary.ModuleID,
			ModuleName:        summary.ModuleName,
			Total:             summary.Total,
			CountsByStatus:    counts,
			AveragePercentage: round2(summary.AveragePercentage),
			CompletionRate:    round2(summary.CompletionRate()),
		})
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
