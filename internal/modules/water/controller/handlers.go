package controller

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"waterwatch/internal/modules/water/export"
	"waterwatch/internal/modules/water/types"
	"waterwatch/internal/modules/water/views"
	"waterwatch/internal/utils"
)

// maxIngestBody caps a single device payload.
const maxIngestBody = 1 << 20

func (c *waterControllerImpl) handleIngest(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", c.opts.CORSAllowOrigin)
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		h.Set("Allow", "POST, OPTIONS")
		writeFailure(w, types.NewError(types.CodeMethodNotAllowed, "Method not allowed. Use POST."))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIngestBody))
	if err != nil {
		msg := "Invalid JSON data: " + err.Error()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg = fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit)
		}
		writeFailure(w, &types.Error{Code: types.CodeInvalidPayload, Message: msg, Err: err})
		return
	}

	ack, err := c.service.Ingest(r.Context(), body)
	if err != nil {
		writeFailure(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ack)
}

func (c *waterControllerImpl) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeFailure(w, types.NewError(types.CodeMethodNotAllowed, "Method not allowed. Use GET."))
		return
	}

	q, err := parseReportQuery(r)
	if err != nil {
		writeFailure(w, err)
		return
	}

	rep, err := c.service.Report(r.Context(), q.StationID, q.TestID)
	if err != nil {
		writeFailure(w, err)
		return
	}

	if q.Download {
		c.writeDownload(w, rep, q)
		return
	}

	data := &views.ReportData{
		TestID:      rep.ID,
		StationID:   rep.StationID,
		StationName: rep.StationName,
		Location:    rep.Location,
		SensorID:    rep.SensorID,
		TestDate:    rep.CapturedAt.In(c.opts.ReportLocation).Format(export.DateLayout),
		Rows:        views.Rows(rep.Parameters()),
		ColorResult: rep.ColorResult,
		DownloadURL: downloadURL(rep, export.FormatCSV),
		XLSXURL:     downloadURL(rep, export.FormatXLSX),
		Viewer:      c.opts.Viewer,
	}
	var buf bytes.Buffer
	if err := views.RenderReport(&buf, data); err != nil {
		slog.Error("report template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("report: write response failed", "error", err)
	}
}

func (c *waterControllerImpl) writeDownload(w http.ResponseWriter, rep types.Report, q reportQuery) {
	var buf bytes.Buffer
	if err := export.Write(&buf, q.Format, export.Rows(rep, c.opts.ReportLocation)); err != nil {
		slog.Error("report export failed", "format", q.Format, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to build export")
		return
	}
	w.Header().Set("Content-Type", q.Format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", q.Format.Filename(q.TestID)))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("report: write download failed", "error", err)
	}
}

func downloadURL(rep types.Report, f export.Format) string {
	v := url.Values{}
	v.Set("station_id", strconv.FormatInt(rep.StationID, 10))
	v.Set("test_id", strconv.FormatInt(rep.ID, 10))
	v.Set("download", "1")
	if f != export.FormatCSV {
		v.Set("format", string(f))
	}
	return "/report?" + v.Encode()
}

// writeFailure maps err to its code's status and the JSON failure body.
// Untyped errors are reported as StoreError.
func writeFailure(w http.ResponseWriter, err error) {
	var e *types.Error
	if !errors.As(err, &e) {
		e = &types.Error{Code: types.CodeStoreError, Message: err.Error(), Err: err}
	}
	status := e.Code.Status()
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "code", e.Code, "error", err)
	} else {
		slog.Debug("request rejected", "code", e.Code, "error", err)
	}
	utils.WriteFailure(w, status, string(e.Code), e.Message, e.Hint)
}
