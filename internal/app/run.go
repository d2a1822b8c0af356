package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"waterwatch/internal/config"
	"waterwatch/internal/db"
	"waterwatch/internal/httpapi"
	"waterwatch/internal/migrate"
	"waterwatch/internal/modules/water"
	waterviews "waterwatch/internal/modules/water/views"
	"waterwatch/internal/mqtt"
)

// Run starts the service and blocks until ctx is cancelled or the HTTP server
// fails.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbLogSQL", cfg.LogSQL,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
		"reportTimezone", cfg.ReportLocation.String(),
	)

	dbConn, err := db.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			logger.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn); err != nil {
		return err
	}
	logger.Info("database ready")

	if err := waterviews.LoadTemplates(); err != nil {
		return err
	}

	// A nil subscriber keeps the module's MQTT path off.
	var subscriber *mqtt.Subscriber
	var moduleSubscriber mqtt.MQTTSubscriber
	if cfg.MQTTBroker != "" {
		subscriber = mqtt.NewSubscriber(cfg, logger)
		moduleSubscriber = subscriber
	} else {
		logger.Info("mqtt disabled (MQTT_BROKER not set)")
	}

	mux := httpapi.NewMux(dbConn)
	water.RegisterFeature(mux, dbConn, moduleSubscriber, cfg, logger)

	// The handler is attached above, before Connect, so messages the broker
	// delivers right after CONNACK are not dropped.
	if subscriber != nil {
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err := subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			// Auto-reconnect keeps trying; HTTP ingestion works meanwhile.
			logger.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	srv := httpapi.NewServer(cfg, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if subscriber != nil {
			subscriber.Disconnect()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if subscriber != nil {
		logger.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}
