package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"waterwatch/internal/modules/water/repository"
	"waterwatch/internal/modules/water/types"
)

const (
	msgSaved          = "Data saved successfully"
	msgNotFound       = "Test data not found"
	msgMissingParams  = "Missing station_id or test_id"
	hintUnknownDevice = "register the device first: watertool add-station -name <name> -device <sensorId>"
)

type Service struct {
	repository repository.WaterRepository
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repository repository.WaterRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// Ingest validates one device payload, resolves its station and records a
// reading stamped with the server clock. Every call that passes validation
// writes a new row; resubmitting the same payload is not detected.
func (s *Service) Ingest(ctx context.Context, body []byte) (types.Ack, error) {
	p, err := decodePayload(body)
	if err != nil {
		return types.Ack{}, err
	}

	sensorID, err := p.sensorID()
	if err != nil {
		return types.Ack{}, err
	}

	station, err := s.repository.GetStationByDevice(ctx, sensorID)
	if errors.Is(err, repository.ErrStationNotFound) {
		return types.Ack{}, &types.Error{
			Code:    types.CodeUnknownDevice,
			Message: "Unknown sensor ID: " + sensorID,
			Hint:    hintUnknownDevice,
			Err:     err,
		}
	}
	if err != nil {
		return types.Ack{}, storeError(err)
	}

	m, err := p.measurements()
	if err != nil {
		return types.Ack{}, err
	}

	capturedAt := s.now().UTC()
	id, err := s.repository.InsertReading(ctx, types.NewReading{
		StationID:    station.ID,
		SensorID:     sensorID,
		CapturedAt:   capturedAt,
		Measurements: m,
	})
	if err != nil {
		return types.Ack{}, storeError(err)
	}

	s.logger.Info("reading stored",
		"waterdata_id", id,
		"station_id", station.ID,
		"sensor_id", sensorID,
	)
	return types.Ack{
		Success:     true,
		Message:     msgSaved,
		WaterDataID: id,
		StationID:   station.ID,
		Timestamp:   capturedAt.Truncate(time.Second),
	}, nil
}

// Report returns the reading identified by readingID if it belongs to
// stationID, joined with the station's details.
func (s *Service) Report(ctx context.Context, stationID, readingID int64) (types.Report, error) {
	if stationID <= 0 || readingID <= 0 {
		return types.Report{}, types.NewError(types.CodeMissingParameters, msgMissingParams)
	}
	rep, err := s.repository.GetReport(ctx, stationID, readingID)
	if errors.Is(err, repository.ErrReadingNotFound) {
		return types.Report{}, &types.Error{Code: types.CodeNotFound, Message: msgNotFound, Err: err}
	}
	if err != nil {
		return types.Report{}, storeError(err)
	}
	return rep, nil
}

func storeError(err error) *types.Error {
	return &types.Error{Code: types.CodeStoreError, Message: "Database error: " + err.Error(), Err: err}
}
