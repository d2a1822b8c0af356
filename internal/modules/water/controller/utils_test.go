package controller

import (
	"net/http/httptest"
	"testing"

	"waterwatch/internal/modules/water/export"
)

func Test_parseReportQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    reportQuery
		wantErr bool
	}{
		{name: "view", query: "station_id=5&test_id=12", want: reportQuery{StationID: 5, TestID: 12, Format: export.FormatCSV}},
		{name: "csv download", query: "station_id=5&test_id=12&download=1", want: reportQuery{StationID: 5, TestID: 12, Download: true, Format: export.FormatCSV}},
		{name: "xlsx download", query: "station_id=5&test_id=12&download=1&format=xlsx", want: reportQuery{StationID: 5, TestID: 12, Download: true, Format: export.FormatXLSX}},
		{name: "download flag other than 1", query: "station_id=5&test_id=12&download=yes", want: reportQuery{StationID: 5, TestID: 12, Format: export.FormatCSV}},
		{name: "missing test", query: "station_id=5", wantErr: true},
		{name: "negative station", query: "station_id=-5&test_id=1", wantErr: true},
		{name: "garbage", query: "station_id=5x&test_id=1", wantErr: true},
		{name: "unknown format", query: "station_id=5&test_id=1&format=pdf", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseReportQuery(httptest.NewRequest("GET", "/report?"+tt.query, nil))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseReportQuery(%q) err = nil; want error", tt.query)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseReportQuery(%q): %v", tt.query, err)
			}
			if got != tt.want {
				t.Errorf("parseReportQuery(%q) = %+v; want %+v", tt.query, got, tt.want)
			}
		})
	}
}
