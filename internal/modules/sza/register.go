package sza

import (
	"net/http"

	"sza-server/internal/modules/sza/controller"
	"sza-server/internal/modules/sza/service"
	"sza-server/internal/page"
)

func RegisterFeature(mux *http.ServeMux, data service.Dataset, renderer *page.Renderer, minify bool) controller.SZAController {
	szaService := service.NewService(data, minify)
	szaController := controller.NewSZAController(szaService, renderer)
	szaController.RegisterRoutes(mux)
	return szaController
}
