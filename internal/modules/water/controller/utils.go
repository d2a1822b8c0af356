package controller

import (
	"net/http"
	"strconv"
	"strings"

	"waterwatch/internal/modules/water/export"
	"waterwatch/internal/modules/water/types"
)

type reportQuery struct {
	StationID int64
	TestID    int64
	Download  bool
	Format    export.Format
}

// parseReportQuery reads station_id, test_id, download and format. An absent
// or malformed identifier is left as zero.
func parseReportQuery(r *http.Request) (reportQuery, error) {
	q := r.URL.Query()

	rq := reportQuery{
		StationID: parseID(q.Get("station_id")),
		TestID:    parseID(q.Get("test_id")),
		Download:  q.Get("download") == "1",
	}
	if rq.StationID == 0 || rq.TestID == 0 {
		return reportQuery{}, types.NewError(types.CodeMissingParameters, "Missing station_id or test_id")
	}

	f, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		return reportQuery{}, &types.Error{Code: types.CodeInvalidPayload, Message: err.Error(), Err: err}
	}
	rq.Format = f
	return rq, nil
}

func parseID(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
