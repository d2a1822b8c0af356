package controller

import (
	"context"
	"net/http"
	"time"

	"waterwatch/internal/modules/water/types"
	"waterwatch/internal/modules/water/views"
)

type WaterService interface {
	Ingest(ctx context.Context, body []byte) (types.Ack, error)
	Report(ctx context.Context, stationID, readingID int64) (types.Report, error)
}

type WaterController interface {
	RegisterRoutes(mux *http.ServeMux)
}

// Options carries the presentation settings the handlers need.
type Options struct {
	CORSAllowOrigin string
	ReportLocation  *time.Location
	Viewer          views.Viewer
}

type waterControllerImpl struct {
	service WaterService
	opts    Options
}

func NewWaterController(service WaterService, opts Options) WaterController {
	if opts.CORSAllowOrigin == "" {
		opts.CORSAllowOrigin = "*"
	}
	if opts.ReportLocation == nil {
		opts.ReportLocation = time.UTC
	}
	return &waterControllerImpl{service: service, opts: opts}
}

// RegisterRoutes mounts the ingestion and report endpoints. Both accept every
// method so that unsupported ones get the JSON failure body.
func (c *waterControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ingest", c.handleIngest)
	mux.HandleFunc("/report", c.handleReport)
}
