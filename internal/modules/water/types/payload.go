package types

// Payload field names as sent by the sensor firmware.
const (
	FieldSensorID        = "sensorId"
	FieldTDS             = "tds_val"
	FieldPH              = "ph_val"
	FieldTurbidity       = "turbidity_val"
	FieldLead            = "lead_val"
	FieldColor           = "color_val"
	FieldTDSStatus       = "tds_status"
	FieldPHStatus        = "ph_status"
	FieldTurbidityStatus = "turbidity_status"
	FieldLeadStatus      = "lead_status"
	FieldColorStatus     = "color_status"
	FieldColorResult     = "color_result"
)

// Payload is the device message in typed form, used by tools that produce
// readings. The server decodes raw JSON itself so it can tell absent from zero.
type Payload struct {
	SensorID        string   `json:"sensorId"`
	TDS             *float64 `json:"tds_val,omitempty"`
	PH              *float64 `json:"ph_val,omitempty"`
	Turbidity       *float64 `json:"turbidity_val,omitempty"`
	Lead            *float64 `json:"lead_val,omitempty"`
	Color           *float64 `json:"color_val,omitempty"`
	TDSStatus       string   `json:"tds_status,omitempty"`
	PHStatus        string   `json:"ph_status,omitempty"`
	TurbidityStatus string   `json:"turbidity_status,omitempty"`
	LeadStatus      string   `json:"lead_status,omitempty"`
	ColorStatus     string   `json:"color_status,omitempty"`
	ColorResult     string   `json:"color_result,omitempty"`
}
