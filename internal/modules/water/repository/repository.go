package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"waterwatch/internal/modules/water/types"
)

//go:embed sql/get-station-by-device.sql
var getStationByDeviceSQL string

//go:embed sql/insert-reading.sql
var insertReadingSQL string

//go:embed sql/get-report.sql
var getReportSQL string

//go:embed sql/insert-station.sql
var insertStationSQL string

//go:embed sql/list-stations.sql
var listStationsSQL string

var (
	ErrStationNotFound = errors.New("station not found")
	ErrReadingNotFound = errors.New("reading not found")
	ErrDuplicateDevice = errors.New("device sensor id already registered")
)

type WaterRepository interface {
	GetStationByDevice(ctx context.Context, deviceSensorID string) (types.Station, error)
	InsertReading(ctx context.Context, r types.NewReading) (int64, error)
	GetReport(ctx context.Context, stationID, readingID int64) (types.Report, error)
	CreateStation(ctx context.Context, s types.Station) (int64, error)
	ListStations(ctx context.Context) ([]types.Station, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) WaterRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetStationByDevice(ctx context.Context, deviceSensorID string) (types.Station, error) {
	var s types.Station
	err := r.db.QueryRowContext(ctx, getStationByDeviceSQL, deviceSensorID).
		Scan(&s.ID, &s.Name, &s.Location, &s.DeviceSensorID)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Station{}, fmt.Errorf("device %q: %w", deviceSensorID, ErrStationNotFound)
	}
	if err != nil {
		return types.Station{}, fmt.Errorf("lookup station for device %q: %w", deviceSensorID, err)
	}
	return s, nil
}

// InsertReading appends one reading and returns its id. Nil measurements are
// written as NULL.
func (r *repositoryImpl) InsertReading(ctx context.Context, rd types.NewReading) (int64, error) {
	m := rd.Measurements
	res, err := r.db.ExecContext(ctx, insertReadingSQL,
		rd.StationID, rd.SensorID,
		nullable(m.TDS), m.TDSStatus,
		nullable(m.PH), m.PHStatus,
		nullable(m.Turbidity), m.TurbidityStatus,
		nullable(m.Lead), m.LeadStatus,
		nullable(m.Color), m.ColorStatus, m.ColorResult,
		rd.CapturedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert reading: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert reading: last insert id: %w", err)
	}
	return id, nil
}

func (r *repositoryImpl) GetReport(ctx context.Context, stationID, readingID int64) (types.Report, error) {
	var (
		rep                             types.Report
		tds, ph, turbidity, lead, color sql.NullFloat64
		ts                              string
	)
	m := &rep.Measurements
	err := r.db.QueryRowContext(ctx, getReportSQL, stationID, readingID).Scan(
		&rep.ID, &rep.StationID, &rep.SensorID,
		&tds, &m.TDSStatus,
		&ph, &m.PHStatus,
		&turbidity, &m.TurbidityStatus,
		&lead, &m.LeadStatus,
		&color, &m.ColorStatus, &m.ColorResult,
		&ts,
		&rep.StationName, &rep.Location, &rep.DeviceSensorID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Report{}, fmt.Errorf("station %d reading %d: %w", stationID, readingID, ErrReadingNotFound)
	}
	if err != nil {
		return types.Report{}, fmt.Errorf("get report: %w", err)
	}

	m.TDS = floatPtr(tds)
	m.PH = floatPtr(ph)
	m.Turbidity = floatPtr(turbidity)
	m.Lead = floatPtr(lead)
	m.Color = floatPtr(color)

	rep.CapturedAt, err = parseTimestamp(ts)
	if err != nil {
		return types.Report{}, err
	}
	return rep, nil
}

func (r *repositoryImpl) CreateStation(ctx context.Context, s types.Station) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertStationSQL, s.Name, s.Location, s.DeviceSensorID)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return 0, fmt.Errorf("%q: %w", s.DeviceSensorID, ErrDuplicateDevice)
		}
		return 0, fmt.Errorf("insert station: %w", err)
	}
	return res.LastInsertId()
}

func (r *repositoryImpl) ListStations(ctx context.Context) ([]types.Station, error) {
	rows, err := r.db.QueryContext(ctx, listStationsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()

	var out []types.Station
	for rows.Next() {
		var s types.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.DeviceSensorID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func parseTimestamp(ts string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err == nil {
		return t, nil
	}
	t, err2 := time.Parse(time.RFC3339, ts)
	if err2 != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: RFC3339Nano: %w; RFC3339: %w", ts, err, err2)
	}
	return t, nil
}
