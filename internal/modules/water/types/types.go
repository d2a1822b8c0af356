package types

import "time"

// StatusUnknown is stored for any status field a device leaves out.
const StatusUnknown = "Unknown"

type Station struct {
	ID             int64  `json:"station_id"`
	Name           string `json:"station_name"`
	Location       string `json:"location"`
	DeviceSensorID string `json:"device_sensor_id"`
}

// Measurements are the five measured parameters plus the color classification.
// A nil value means the device did not report it.
type Measurements struct {
	TDS             *float64 `json:"tds_value"`
	TDSStatus       string   `json:"tds_status"`
	PH              *float64 `json:"ph_value"`
	PHStatus        string   `json:"ph_status"`
	Turbidity       *float64 `json:"turbidity_value"`
	TurbidityStatus string   `json:"turbidity_status"`
	Lead            *float64 `json:"lead_value"`
	LeadStatus      string   `json:"lead_status"`
	Color           *float64 `json:"color_value"`
	ColorStatus     string   `json:"color_status"`
	ColorResult     string   `json:"color_result"`
}

// NewReading is what the ingestion path hands to the store.
type NewReading struct {
	StationID  int64
	SensorID   string
	CapturedAt time.Time
	Measurements
}

type Reading struct {
	ID         int64     `json:"waterdata_id"`
	StationID  int64     `json:"station_id"`
	SensorID   string    `json:"sensor_id"`
	CapturedAt time.Time `json:"captured_at"`
	Measurements
}

// Report is a reading joined with its owning station.
type Report struct {
	Reading
	StationName string `json:"station_name"`
	Location    string `json:"location"`
	// DeviceSensorID is the station's current device; Reading.SensorID is the
	// device at capture time.
	DeviceSensorID string `json:"device_sensor_id"`
}

// Ack is the success body of an ingestion.
type Ack struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	WaterDataID int64     `json:"waterdata_id"`
	StationID   int64     `json:"station_id"`
	Timestamp   time.Time `json:"timestamp"`
}
