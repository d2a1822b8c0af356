package water

import (
	"database/sql"
	"log/slog"
	"net/http"

	"waterwatch/internal/config"
	"waterwatch/internal/modules/water/controller"
	"waterwatch/internal/modules/water/repository"
	"waterwatch/internal/modules/water/service"
	"waterwatch/internal/modules/water/views"
	"waterwatch/internal/mqtt"
)

// RegisterFeature wires the water module onto mux and, when subscriber is
// non-nil, onto the MQTT readings topic.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, subscriber mqtt.MQTTSubscriber, cfg config.Config, logger *slog.Logger) {
	waterRepository := repository.NewRepository(db)
	waterService := service.NewService(waterRepository, logger)
	waterController := controller.NewWaterController(waterService, controller.Options{
		CORSAllowOrigin: cfg.CORSAllowOrigin,
		ReportLocation:  cfg.ReportLocation,
		Viewer: views.Viewer{
			UserID:      cfg.Identity.UserID,
			Username:    cfg.Identity.Username,
			DisplayName: cfg.Identity.DisplayName,
		},
	})
	waterController.RegisterRoutes(mux)

	if subscriber != nil {
		waterService.Register(subscriber)
	}
}
