package types

// Parameter is one measured row of a report: a value with its unit, the
// display precision used on screen, and the device-assigned status.
type Parameter struct {
	Name      string
	Unit      string
	Precision int
	Value     *float64
	Status    string
}

func (p Parameter) Severity() Severity { return SeverityOf(p.Status) }

// Parameters lists the measured rows in report order.
func (m Measurements) Parameters() []Parameter {
	return []Parameter{
		{Name: "TDS", Unit: "mg/L", Precision: 1, Value: m.TDS, Status: m.TDSStatus},
		{Name: "pH", Precision: 2, Value: m.PH, Status: m.PHStatus},
		{Name: "Turbidity", Unit: "NTU", Precision: 2, Value: m.Turbidity, Status: m.TurbidityStatus},
		{Name: "Lead", Unit: "mg/L", Precision: 4, Value: m.Lead, Status: m.LeadStatus},
		{Name: "Color", Unit: "TCU", Precision: 1, Value: m.Color, Status: m.ColorStatus},
	}
}
