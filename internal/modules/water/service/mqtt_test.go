package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"waterwatch/internal/modules/water/types"
	"waterwatch/internal/mqtt"
)

type fakeSubscriber struct {
	handler mqtt.MessageHandler
}

func (f *fakeSubscriber) SetMessageHandler(h mqtt.MessageHandler) { f.handler = h }

type fakeIngester struct {
	bodies   [][]byte
	deadline bool
	err      error
}

func (f *fakeIngester) Ingest(ctx context.Context, body []byte) (types.Ack, error) {
	f.bodies = append(f.bodies, body)
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return types.Ack{}, f.err
	}
	return types.Ack{Success: true, WaterDataID: 1, StationID: 5}, nil
}

func TestRegisterMQTTHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sub := &fakeSubscriber{}
	ing := &fakeIngester{}

	registerMQTTHandler(sub, ing, logger)
	if sub.handler == nil {
		t.Fatal("no handler registered")
	}

	payload := []byte(`{"sensorId":"S100"}`)
	if err := sub.handler(context.Background(), "water/S100/readings", payload); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(ing.bodies) != 1 || string(ing.bodies[0]) != string(payload) {
		t.Errorf("ingested %q, want payload passed through", ing.bodies)
	}
	if !ing.deadline {
		t.Error("ingest context has no deadline")
	}

	ing.err = types.NewError(types.CodeUnknownDevice, "Unknown sensor ID: S9")
	err := sub.handler(context.Background(), "water/S9/readings", payload)
	if types.CodeOf(err) != types.CodeUnknownDevice {
		t.Errorf("handler err = %v, want UnknownDevice passed back", err)
	}
}

func TestService_RegisterUsesIngest(t *testing.T) {
	repo := s100Repo()
	svc := newTestService(repo)
	sub := &fakeSubscriber{}

	svc.Register(sub)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sub.handler(ctx, "water/S100/readings", []byte(`{"sensorId":"S100","ph_val":7}`)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].StationID != 5 {
		t.Errorf("inserted = %+v", repo.inserted)
	}

	err := sub.handler(ctx, "water/S100/readings", []byte(`not json`))
	if !errors.As(err, new(*types.Error)) {
		t.Errorf("handler err = %v, want typed error", err)
	}
}
