package training

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/mohammadpnp/instituto-import/internal/domain/training"
)

type GetUserProgressInput struct {
	UserID string
}

type EvaluationOutput struct {
	Score   float64 `json:"score"`
	Passed  bool    `json:"passed"`
	Attempt int     `json:"attempt"`
}

type ModuleProgressOutput struct {
	ModuleID       int               `json:"module_id"`
	ModuleName     string            `json:"module_name"`
	Status         string            `json:"status"`
	Percentage     *float64          `json:"percentage"`
	StartedAt      *time.Time        `json:"started_at,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	DueAt          *time.Time        `json:"due_at,omitempty"`
	LastEvaluation *EvaluationOutput `json:"last_evaluation,omitempty"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type GetUserProgressOutput struct {
	UserID           string                 `json:"user_id"`
	Name             string                 `json:"name"`
	Email            string                 `json:"email"`
	Position         string                 `json:"position"`
	Department       string                 `json:"department"`
	BusinessUnit     string                 `json:"business_unit"`
	CompletedModules int                    `json:"completed_modules"`
	TotalModules     int                    `json:"total_modules"`
	Modules          []ModuleProgressOutput `json:"modules"`
}

type GetUserProgress interface {
	Execute(ctx context.Context, in GetUserProgressInput) (GetUserProgressOutput, error)
}

type userProgressReader interface {
	GetUserProgress(ctx context.Context, userID string) (*domain.UserProgress, error)
}

type getUserProgress struct {
	repo userProgressReader
}

func NewGetUserProgress(repo userProgressReader) GetUserProgress {
	return &getUserProgress{repo: repo}
}

func (uc *getUserProgress) Execute(ctx context.Context, in GetUserProgressInput) (GetUserProgressOutput, error) {
	userID := strings.TrimSpace(in.UserID)
	if userID == "" || len(userID) > 64 {
		return GetUserProgressOutput{}, ErrInvalidUserID
	}

	progress, err := uc.repo.GetUserProgress(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return GetUserProgressOutput{}, ErrUserNotFound
		}
		return GetUserProgressOutput{}, fmt.Errorf("%w: %v", ErrGetUserProgress, err)
	}

	out := GetUserProgressOutput{
		UserID:       progress.User.ID,
		Name:         progress.User.Name,
		Email:        progress.User.Email,
		Position:     progress.User.Position,
		Department:   progress.User.Department,
		BusinessUnit: progress.User.BusinessUnit,
		TotalModules: domain.MaxModuleID,
		Modules:      make([]ModuleProgressOutput, 0, len(progress.Modules)),
	}

	for _, module := range progress.Modules {
		if module.Status == domain.StatusCompleted {
			out.CompletedModules++
		}

		item := ModuleProgressOutput{
			ModuleID:    module.ModuleID,
			ModuleName:  module.ModuleName,
			Status:      string(module.Status),
			Percentage:  module.Percentage,
			StartedAt:   module.StartedAt,
			CompletedAt: module.CompletedAt,
			DueAt:       module.DueAt,
			UpdatedAt:   module.UpdatedAt,
		}
		if module.LastEvaluation != nil {
			item.LastEvaluation = &EvaluationOutput{
				Score:   module.LastEvaluation.Score,
				Passed:  module.LastEvaluation.Passed,
				Attempt: module.LastEvaluation.Attempt,
			}
		}
		out.Modules = append(out.Modules, item)
	}

	return out, nil
}
