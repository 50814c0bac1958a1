package repository

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/db/models"
	"gorm.io/gorm"
)

type ProgressQueryRepository struct {
	db *gorm.DB
}

func NewProgressQueryRepository(db *gorm.DB) *ProgressQueryRepository {
	return &ProgressQueryRepository{db: db}
}

func (r *ProgressQueryRepository) GetUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	var row models.User

	err := r.db.WithContext(ctx).
		Preload("Department").
		Preload("BusinessUnit").
		Preload("Progress", func(db *gorm.DB) *gorm.DB {
			return db.Order("id_modulo")
		}).
		Preload("Progress.Module").
		Preload("Progress.Evaluations", func(db *gorm.DB) *gorm.DB {
			return db.Order("attempt DESC")
		}).
		First(&row, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user progress: %w", err)
	}

	user := domain.User{
		ID:       row.UserID,
		Name:     row.Name,
		Email:    row.Email,
		Position: row.Position,
	}
	if row.Department != nil {
		user.Department = row.Department.Name
	}
	if row.BusinessUnit != nil {
		user.BusinessUnit = row.BusinessUnit.Name
	}

	modules := make([]domain.ModuleProgress, 0, len(row.Progress))
	for _, progress := range row.Progress {
		module := domain.ModuleProgress{
			ModuleID:    progress.ModuleID,
			Status:      domain.Status(progress.Status),
			Percentage:  progress.Percentage,
			StartedAt:   progress.StartedAt,
			CompletedAt: progress.CompletedAt,
			DueAt:       progress.DueAt,
			UpdatedAt:   progress.UpdatedAt,
		}
		if progress.Module != nil {
			module.ModuleName = progress.Module.Name
		}
		if len(progress.Evaluations) > 0 {
			last := progress.Evaluations[0]
			module.LastEvaluation = &domain.EvaluationResult{
				Score:   last.Score,
				Passed:  last.Passed,
				Attempt: last.Attempt,
			}
		}
		modules = append(modules, module)
	}

	return &domain.UserProgress{User: user, Modules: modules}, nil
}

type moduleStatusRow struct {
	ModuleID        int
	ModuleName      string
	Status          *string
	Total           int64
	PercentageSum   *float64
	PercentageCount int64
}

// ModuleSummary aggregates progress per module. Modules without enrolments
// are still listed with zero counts.
func (r *ProgressQueryRepository) ModuleSummary(ctx context.Context) ([]domain.ModuleSummary, error) {
	var rows []moduleStatusRow

	err := r.db.WithContext(ctx).
		Table("instituto_modulo AS m").
		Select(`m.id_modulo AS module_id,
			m.name AS module_name,
			p.status AS status,
			COUNT(p.id) AS total,
			SUM(p.percentage) AS percentage_sum,
			COUNT(p.percentage) AS percentage_count`).
		Joins("LEFT JOIN instituto_progreso_modulo p ON p.id_modulo = m.id_modulo").
		Group("m.id_modulo, m.name, p.status").
		Order("m.id_modulo").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("summarize modules: %w", err)
	}

	summaries := make([]domain.ModuleSummary, 0, domain.MaxModuleID)
	var percentageSum float64
	var percentageCount int64

	closeSummary := func() {
		if len(summaries) == 0 {
			return
		}
		last := &summaries[len(summaries)-1]
		if percentageCount > 0 {
			last.AveragePercentage = percentageSum / float64(percentageCount)
		}
		percentageSum = 0
		percentageCount = 0
	}

	for _, row := range rows {
		if len(summaries) == 0 || summaries[len(summaries)-1].ModuleID != row.ModuleID {
			closeSummary()
			summaries = append(summaries, domain.ModuleSummary{
				ModuleID:       row.ModuleID,
				ModuleName:     row.ModuleName,
				CountsByStatus: make(map[domain.Status]int64, len(domain.Statuses)),
			})
		}

		if row.Status == nil {
			continue
		}
		current := &summaries[len(summaries)-1]
		current.CountsByStatus[domain.Status(*row.Status)] += row.Total
		current.Total += row.Total
		if row.PercentageSum != nil {
			percentageSum += *row.PercentageSum
			percentageCount += row.PercentageCount
		}
	}
	closeSummary()

	return summaries, nil
}
