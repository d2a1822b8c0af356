// Package export renders a report as the downloadable table offered next to
// the HTML view.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"waterwatch/internal/modules/water/types"
)

// Format selects the download encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DateLayout is the "Test Date" layout shared by every export format and the
// HTML view.
const DateLayout = "2006-01-02 15:04:05"

const title = "Water Quality Test Report"

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q (allowed: csv, xlsx)", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename is the attachment name for reading id in this format.
func (f Format) Filename(readingID int64) string {
	return fmt.Sprintf("water_test_%d.%s", readingID, f)
}

// Rows lays the report out as the export table. A blank row separates the
// header block from the results; a NULL value is an empty cell with no unit.
func Rows(rep types.Report, loc *time.Location) [][]string {
	if loc == nil {
		loc = time.UTC
	}
	rows := [][]string{
		{title},
		{"Station", rep.StationName},
		{"Location", rep.Location},
		{"Sensor ID", rep.SensorID},
		{"Test Date", rep.CapturedAt.In(loc).Format(DateLayout)},
		{},
		{"Parameter", "Value", "Status"},
	}
	for _, p := range rep.Parameters() {
		rows = append(rows, []string{p.Name, RawValue(p), p.Status})
	}
	return append(rows, []string{"Color Result", rep.ColorResult})
}

// RawValue is the shortest decimal that round-trips the stored value,
// followed by the unit. NULL is empty.
func RawValue(p types.Parameter) string {
	if p.Value == nil {
		return ""
	}
	s := strconv.FormatFloat(*p.Value, 'f', -1, 64)
	if p.Unit != "" {
		s += " " + p.Unit
	}
	return s
}

func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Write encodes rows in format f.
func Write(w io.Writer, f Format, rows [][]string) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, rows)
	default:
		return WriteCSV(w, rows)
	}
}
