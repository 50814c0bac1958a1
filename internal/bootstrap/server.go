package bootstrap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	"github.com/mohammadpnp/instituto-import/internal/config"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/repository"
	httpecho "github.com/mohammadpnp/instituto-import/internal/interfaces/http/echo"
	"gorm.io/gorm"
)

func NewHTTPServer(db *gorm.DB, cfg config.Config) *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	server.Validator = httpecho.NewRequestValidator()

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("1M"))

	importJobRepo := repository.NewImportJobRepository(db, cfg.ImportMaxAttempts)
	importHandler := httpecho.NewImportHandler(
		app.NewStartImport(importJobRepo),
		app.NewGetImportJob(importJobRepo),
	)

	progressRepo := repository.NewProgressQueryRepository(db)
	progressHandler := httpecho.NewProgressHandler(
		app.NewGetUserProgress(progressRepo),
		app.NewGetModuleSummary(progressRepo),
	)

	httpecho.RegisterRoutes(server, importHandler, progressHandler)

	server.GET("/healthz", func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return server
}
