package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"waterwatch/internal/modules/water/types"
)

var reportTmpl *template.Template

// loadTemplatesFromFS parses the report templates under dir in fsys.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.ParseFS(sub, "*.html")
	if err != nil {
		return err
	}
	reportTmpl = tmpl
	return nil
}

// LoadTemplates loads the embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// Viewer is the identity shown in the report footer.
type Viewer struct {
	UserID      int
	Username    string
	DisplayName string
}

// ParameterRow is one formatted line of the results table.
type ParameterRow struct {
	Name        string
	Value       string
	Status      string
	StatusClass string
}

// ReportData is the view model for report.html.
type ReportData struct {
	TestID      int64
	StationID   int64
	StationName string
	Location    string
	SensorID    string
	TestDate    string
	Rows        []ParameterRow
	ColorResult string
	DownloadURL string
	XLSXURL     string
	Viewer      Viewer
}

// Rows formats measured parameters for display.
func Rows(params []types.Parameter) []ParameterRow {
	rows := make([]ParameterRow, 0, len(params))
	for _, p := range params {
		rows = append(rows, ParameterRow{
			Name:        p.Name,
			Value:       FormatValue(p),
			Status:      p.Status,
			StatusClass: "status-" + p.Severity().Class(),
		})
	}
	return rows
}

// FormatValue renders a value at its fixed display precision followed by the
// unit, or N/A when the device did not report it.
func FormatValue(p types.Parameter) string {
	if p.Value == nil {
		return "N/A"
	}
	s := strconv.FormatFloat(*p.Value, 'f', p.Precision, 64)
	if p.Unit != "" {
		s += " " + p.Unit
	}
	return s
}

func RenderReport(w io.Writer, data *ReportData) error {
	if reportTmpl == nil {
		return errors.New("report template not loaded: call views.LoadTemplates during startup")
	}
	return reportTmpl.ExecuteTemplate(w, "report.html", data)
}
