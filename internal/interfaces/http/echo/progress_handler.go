package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/instituto-import/internal/application/training"
)

type ProgressHandler struct {
	getUserProgress  app.GetUserProgress
	getModuleSummary app.GetModuleSummary
}

func NewProgressHandler(getUserProgress app.GetUserProgress, getModuleSummary app.GetModuleSummary) *ProgressHandler {
	return &ProgressHandler{getUserProgress: getUserProgress, getModuleSummary: getModuleSummary}
}

func (h *ProgressHandler) GetUserProgress(c echo.Context) error {
	out, err := h.getUserProgress.Execute(c.Request().Context(), app.GetUserProgressInput{UserID: c.Param("id")})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidUserID):
			return errorJSON(c, http.StatusBadRequest, "invalid_user_id", "id must be 1 to 64 characters")
		case errors.Is(err, app.ErrUserNotFound):
			return errorJSON(c, http.StatusNotFound, "not_found", "user not found")
		}
		c.Logger().Errorf("get user progress: %v", err)
		return errorJSON(c, http.StatusInternalServerError, "internal_error", "failed to get user progress")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ProgressHandler) GetModuleSummary(c echo.Context) error {
	out, err := h.getModuleSummary.Execute(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("get module summary: %v", err)
		return errorJSON(c, http.StatusInternalServerError, "internal_error", "failed to get module summary")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
