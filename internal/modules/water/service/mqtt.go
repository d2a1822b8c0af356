package service

import (
	"context"
	"log/slog"
	"time"

	"waterwatch/internal/modules/water/types"
	"waterwatch/internal/mqtt"
)

// ingestTimeout bounds the store work done for a single MQTT message.
const ingestTimeout = 10 * time.Second

type ingester interface {
	Ingest(ctx context.Context, body []byte) (types.Ack, error)
}

func (s *Service) Register(subscriber mqtt.MQTTSubscriber) {
	registerMQTTHandler(subscriber, s, s.logger)
}

// registerMQTTHandler feeds every message on the readings topic through the
// same ingestion path as POST /ingest.
func registerMQTTHandler(subscriber mqtt.MQTTSubscriber, svc ingester, logger *slog.Logger) {
	subscriber.SetMessageHandler(func(ctx context.Context, topic string, payload []byte) error {
		ctx, cancel := context.WithTimeout(ctx, ingestTimeout)
		defer cancel()

		ack, err := svc.Ingest(ctx, payload)
		if err != nil {
			logger.Warn("mqtt reading rejected",
				"topic", topic,
				"code", types.CodeOf(err),
				"error", err,
			)
			return err
		}

		logger.Debug("mqtt reading stored",
			"topic", topic,
			"waterdata_id", ack.WaterDataID,
			"station_id", ack.StationID,
		)
		return nil
	})
}
