package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"waterwatch/internal/modules/water/types"
	"waterwatch/internal/utils"
)

type sender interface {
	Send(ctx context.Context, p types.Payload) (string, error)
}

type httpSender struct {
	client *resty.Client
}

func newHTTPSender(baseURL string) *httpSender {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &httpSender{client: client}
}

func (s *httpSender) Send(ctx context.Context, p types.Payload) (string, error) {
	var ack types.Ack
	var failure utils.Failure
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString()).
		SetBody(p).
		SetResult(&ack).
		SetError(&failure).
		Post("/ingest")
	if err != nil {
		return "", fmt.Errorf("post /ingest: %w", err)
	}
	if resp.IsError() {
		if failure.Hint != "" {
			return "", fmt.Errorf("%s (%d): %s; %s", failure.Error, resp.StatusCode(), failure.Message, failure.Hint)
		}
		return "", fmt.Errorf("%s (%d): %s", failure.Error, resp.StatusCode(), failure.Message)
	}
	return fmt.Sprintf("waterdata_id=%d station_id=%d", ack.WaterDataID, ack.StationID), nil
}

type mqttSender struct {
	client paho.Client
	topic  string
}

func newMQTTSender(ctx context.Context, broker string, port int, topic string) (*mqttSender, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID("waterwatch-devicesim-" + uuid.NewString()[:8])
	opts.SetConnectTimeout(10 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &mqttSender{client: client, topic: topic}, nil
}

// topicFor fills the single-level wildcard with the sensor id.
func topicFor(pattern, sensorID string) string {
	return strings.Replace(pattern, "+", sensorID, 1)
}

func (s *mqttSender) Send(ctx context.Context, p types.Payload) (string, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	topic := topicFor(s.topic, p.SensorID)
	token := s.client.Publish(topic, 1, false, body)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if err := token.Error(); err != nil {
		return "", fmt.Errorf("publish %s: %w", topic, err)
	}
	return "published to " + topic, nil
}

func (s *mqttSender) Close() {
	s.client.Disconnect(250)
}
