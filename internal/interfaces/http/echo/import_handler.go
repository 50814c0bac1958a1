package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	app "github.com/mohammadpnp/instituto-import/internal/application/training"
)

type ImportHandler struct {
	startImport  app.StartImport
	getImportJob app.GetImportJob
}

type startImportRequest struct {
	SourcePath string `json:"source_path" validate:"required,max=1024"`
	Kind       string `json:"kind" validate:"omitempty,oneof=transcript org_planning assignments"`
}

func NewImportHandler(startImport app.StartImport, getImportJob app.GetImportJob) *ImportHandler {
	return &ImportHandler{startImport: startImport, getImportJob: getImportJob}
}

func (h *ImportHandler) StartImport(c echo.Context) error {
	var req startImportRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "bad_request", "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationErrorJSON(c, err)
	}

	out, err := h.startImport.Execute(c.Request().Context(), app.StartImportInput{
		SourcePath: req.SourcePath,
		Kind:       req.Kind,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidImportSource):
			return errorJSON(c, http.StatusBadRequest, "invalid_source", "source_path must be an .xlsx or .xlsm workbook")
		case errors.Is(err, app.ErrInvalidImportKind):
			return errorJSON(c, http.StatusBadRequest, "invalid_kind", "kind must be transcript, org_planning or assignments")
		}
		c.Logger().Errorf("start import: %v", err)
		return errorJSON(c, http.StatusInternalServerError, "internal_error", "failed to enqueue import job")
	}

	return c.JSON(http.StatusAccepted, apiResponse{Data: out})
}

func (h *ImportHandler) GetImportJob(c echo.Context) error {
	out, err := h.getImportJob.Execute(c.Request().Context(), app.GetImportJobInput{ID: c.Param("id")})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidJobID):
			return errorJSON(c, http.StatusBadRequest, "invalid_job_id", "id must be a valid UUID")
		case errors.Is(err, app.ErrImportJobNotFound):
			return errorJSON(c, http.StatusNotFound, "not_found", "import job not found")
		}
		c.Logger().Errorf("get import job: %v", err)
		return errorJSON(c, http.StatusInternalServerError, "internal_error", "failed to get import job")
	}

	return c.JSON(http.StatusOK, apiResponse{Data: out})
}
