package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, progressHandler *ProgressHandler) {
	if server.Validator == nil {
		server.Validator = NewRequestValidator()
	}

	api := server.Group("/api/v1")
	if importHandler != nil {
		api.POST("/imports", importHandler.StartImport)
		api.GET("/imports/:id", importHandler.GetImportJob)
	}
	if progressHandler != nil {
		api.GET("/users/:id/progress", progressHandler.GetUserProgress)
		api.GET("/modules/summary", progressHandler.GetModuleSummary)
	}
}
