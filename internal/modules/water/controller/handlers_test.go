package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"waterwatch/internal/modules/water/types"
	"waterwatch/internal/modules/water/views"
)

type mockService struct {
	ack       types.Ack
	ingestErr error
	bodies    []string
	report    types.Report
	reportErr error
	gotIDs    [2]int64
}

func (m *mockService) Ingest(_ context.Context, body []byte) (types.Ack, error) {
	m.bodies = append(m.bodies, string(body))
	return m.ack, m.ingestErr
}

func (m *mockService) Report(_ context.Context, stationID, readingID int64) (types.Report, error) {
	m.gotIDs = [2]int64{stationID, readingID}
	return m.report, m.reportErr
}

func newTestController(svc WaterService) *waterControllerImpl {
	return NewWaterController(svc, Options{
		CORSAllowOrigin: "https://dash.example",
		Viewer:          views.Viewer{UserID: 1, Username: "admin", DisplayName: "Administrator"},
	}).(*waterControllerImpl)
}

func decodeFailure(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["success"] != false {
		t.Errorf("success = %v; want false", body["success"])
	}
	return body
}

func Test_handleIngest(t *testing.T) {
	t.Run("OPTIONS returns 200 with CORS headers and empty body", func(t *testing.T) {
		svc := &mockService{}
		ctrl := newTestController(svc)
		rec := httptest.NewRecorder()

		ctrl.handleIngest(rec, httptest.NewRequest(http.MethodOptions, "/ingest", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d; want 200", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("body = %q; want empty", rec.Body.String())
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
			t.Errorf("Access-Control-Allow-Methods = %q", got)
		}
		if len(svc.bodies) != 0 {
			t.Error("OPTIONS reached the service")
		}
	})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method+" returns 405", func(t *testing.T) {
			svc := &mockService{}
			rec := httptest.NewRecorder()

			newTestController(svc).handleIngest(rec, httptest.NewRequest(method, "/ingest", nil))

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d; want 405", rec.Code)
			}
			body := decodeFailure(t, rec)
			if body["error"] != "MethodNotAllowed" || body["message"] != "Method not allowed. Use POST." {
				t.Errorf("body = %v", body)
			}
			if len(svc.bodies) != 0 {
				t.Error("rejected method reached the service")
			}
		})
	}

	t.Run("POST success returns ack", func(t *testing.T) {
		svc := &mockService{ack: types.Ack{
			Success: true, Message: "Data saved successfully", WaterDataID: 3, StationID: 5,
			Timestamp: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
		}}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{"sensorId":"S100"}`))

		newTestController(svc).handleIngest(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", rec.Code)
		}
		if len(svc.bodies) != 1 || svc.bodies[0] != `{"sensorId":"S100"}` {
			t.Errorf("service got %q", svc.bodies)
		}
		var got map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got["success"] != true || got["waterdata_id"] != float64(3) || got["station_id"] != float64(5) {
			t.Errorf("body = %v", got)
		}
		if got["timestamp"] != "2025-02-01T12:00:00Z" {
			t.Errorf("timestamp = %v; want RFC3339 UTC", got["timestamp"])
		}
		if rec.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("CORS header missing on POST")
		}
	})

	t.Run("POST maps typed errors", func(t *testing.T) {
		tests := []struct {
			err        error
			wantStatus int
			wantCode   string
			wantHint   bool
		}{
			{err: types.NewError(types.CodeInvalidPayload, "Invalid JSON data"), wantStatus: 400, wantCode: "InvalidPayload"},
			{err: types.NewError(types.CodeMissingField, "Sensor ID is required"), wantStatus: 400, wantCode: "MissingField"},
			{err: &types.Error{Code: types.CodeUnknownDevice, Message: "Unknown sensor ID: S9", Hint: "register"}, wantStatus: 404, wantCode: "UnknownDevice", wantHint: true},
			{err: errors.New("disk I/O error"), wantStatus: 500, wantCode: "StoreError"},
		}
		for _, tt := range tests {
			t.Run(tt.wantCode, func(t *testing.T) {
				rec := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(`{}`))

				newTestController(&mockService{ingestErr: tt.err}).handleIngest(rec, req)

				if rec.Code != tt.wantStatus {
					t.Errorf("status = %d; want %d", rec.Code, tt.wantStatus)
				}
				body := decodeFailure(t, rec)
				if body["error"] != tt.wantCode {
					t.Errorf("error = %v; want %s", body["error"], tt.wantCode)
				}
				if _, ok := body["hint"]; ok != tt.wantHint {
					t.Errorf("hint present = %v; want %v", ok, tt.wantHint)
				}
			})
		}
	})

	t.Run("POST body over limit is rejected before the service", func(t *testing.T) {
		svc := &mockService{}
		rec := httptest.NewRecorder()
		big := `{"sensorId":"` + strings.Repeat("x", maxIngestBody) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/ingest", strings.NewReader(big))

		newTestController(svc).handleIngest(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want 400", rec.Code)
		}
		body := decodeFailure(t, rec)
		if body["error"] != "InvalidPayload" {
			t.Errorf("error = %v; want InvalidPayload", body["error"])
		}
		if len(svc.bodies) != 0 {
			t.Error("oversized body reached the service")
		}
	})
}

func sampleReport() types.Report {
	tds, ph := 350.2, 7.1
	var rep types.Report
	rep.ID = 12
	rep.StationID = 5
	rep.SensorID = "S100"
	rep.CapturedAt = time.Date(2025, 2, 1, 4, 0, 0, 0, time.UTC)
	rep.StationName = "Aqua Pure"
	rep.Location = "Makati"
	rep.Measurements = types.Measurements{
		TDS: &tds, TDSStatus: "Safe", PH: &ph, PHStatus: "Safe",
		TurbidityStatus: "Unknown", LeadStatus: "Unknown", ColorStatus: "Unknown", ColorResult: "Clear",
	}
	return rep
}

func Test_handleReport(t *testing.T) {
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}

	t.Run("HTML view", func(t *testing.T) {
		svc := &mockService{report: sampleReport()}
		rec := httptest.NewRecorder()

		newTestController(svc).handleReport(rec, httptest.NewRequest(http.MethodGet, "/report?station_id=5&test_id=12", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200, body %q", rec.Code, rec.Body.String())
		}
		if svc.gotIDs != [2]int64{5, 12} {
			t.Errorf("service got ids %v", svc.gotIDs)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}
		out := rec.Body.String()
		for _, want := range []string{"Aqua Pure", "350.2 mg/L", "7.10", "N/A", "2025-02-01 04:00:00", "status-safe", "Administrator"} {
			if !strings.Contains(out, want) {
				t.Errorf("HTML missing %q", want)
			}
		}
	})

	t.Run("CSV download", func(t *testing.T) {
		rec := httptest.NewRecorder()

		newTestController(&mockService{report: sampleReport()}).handleReport(rec, httptest.NewRequest(http.MethodGet, "/report?station_id=5&test_id=12&download=1", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
			t.Errorf("Content-Type = %q", ct)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="water_test_12.csv"` {
			t.Errorf("Content-Disposition = %q", cd)
		}
		out := rec.Body.String()
		if !strings.HasPrefix(out, "Water Quality Test Report\nStation,Aqua Pure\n") {
			t.Errorf("csv = %q", out)
		}
		if !strings.Contains(out, "TDS,350.2 mg/L,Safe\n") || !strings.Contains(out, "Turbidity,,Unknown\n") {
			t.Errorf("csv rows = %q", out)
		}
	})

	t.Run("XLSX download", func(t *testing.T) {
		rec := httptest.NewRecorder()

		newTestController(&mockService{report: sampleReport()}).handleReport(rec, httptest.NewRequest(http.MethodGet, "/report?station_id=5&test_id=12&download=1&format=xlsx", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want 200", rec.Code)
		}
		if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="water_test_12.xlsx"` {
			t.Errorf("Content-Disposition = %q", cd)
		}
		if !strings.HasPrefix(rec.Body.String(), "PK") {
			t.Error("body is not a zip container")
		}
	})

	t.Run("errors are JSON", func(t *testing.T) {
		tests := []struct {
			name       string
			target     string
			method     string
			svc        *mockService
			wantStatus int
			wantCode   string
		}{
			{name: "missing ids", target: "/report", svc: &mockService{}, wantStatus: 400, wantCode: "MissingParameters"},
			{name: "zero station", target: "/report?station_id=0&test_id=3", svc: &mockService{}, wantStatus: 400, wantCode: "MissingParameters"},
			{name: "non-numeric test", target: "/report?station_id=5&test_id=abc", svc: &mockService{}, wantStatus: 400, wantCode: "MissingParameters"},
			{name: "bad format", target: "/report?station_id=5&test_id=3&download=1&format=pdf", svc: &mockService{}, wantStatus: 400, wantCode: "InvalidPayload"},
			{name: "not found", target: "/report?station_id=5&test_id=3", svc: &mockService{reportErr: types.NewError(types.CodeNotFound, "Test data not found")}, wantStatus: 404, wantCode: "NotFound"},
			{name: "store error", target: "/report?station_id=5&test_id=3", svc: &mockService{reportErr: types.NewError(types.CodeStoreError, "Database error: locked")}, wantStatus: 500, wantCode: "StoreError"},
			{name: "wrong method", target: "/report?station_id=5&test_id=3", method: http.MethodPost, svc: &mockService{}, wantStatus: 405, wantCode: "MethodNotAllowed"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				method := tt.method
				if method == "" {
					method = http.MethodGet
				}
				rec := httptest.NewRecorder()

				newTestController(tt.svc).handleReport(rec, httptest.NewRequest(method, tt.target, nil))

				if rec.Code != tt.wantStatus {
					t.Errorf("status = %d; want %d", rec.Code, tt.wantStatus)
				}
				body := decodeFailure(t, rec)
				if body["error"] != tt.wantCode {
					t.Errorf("error = %v; want %s", body["error"], tt.wantCode)
				}
			})
		}
	})
}

func TestRegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	newTestController(&mockService{}).RegisterRoutes(mux)

	for _, path := range []string{"/ingest", "/report"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		if _, pattern := mux.Handler(req); pattern != path {
			t.Errorf("pattern for %s = %q", path, pattern)
		}
	}
}
