package main

import (
	"math"
	"math/rand/v2"

	"waterwatch/internal/modules/water/types"
)

// generator produces plausible refilling-station readings with the status
// labels a sensor would assign.
type generator struct {
	sensorID string
	rnd      *rand.Rand
}

func newGenerator(sensorID string, rnd *rand.Rand) *generator {
	return &generator{sensorID: sensorID, rnd: rnd}
}

func (g *generator) uniform(lo, hi float64, decimals int) float64 {
	v := lo + g.rnd.Float64()*(hi-lo)
	scale := math.Pow10(decimals)
	return math.Round(v*scale) / scale
}

func (g *generator) next() types.Payload {
	tds := g.uniform(50, 600, 1)
	ph := g.uniform(5.5, 9.0, 2)
	turbidity := g.uniform(0, 8, 2)
	lead := g.uniform(0, 0.02, 4)
	color := g.uniform(0, 20, 1)

	colorResult := "Clear"
	if color > 15 {
		colorResult = "Yellowish"
	} else if color > 5 {
		colorResult = "Slightly Tinted"
	}

	return types.Payload{
		SensorID:        g.sensorID,
		TDS:             &tds,
		PH:              &ph,
		Turbidity:       &turbidity,
		Lead:            &lead,
		Color:           &color,
		TDSStatus:       band(tds, 500, 550),
		PHStatus:        rangeStatus(ph, 6.5, 8.5),
		TurbidityStatus: band(turbidity, 5, 6),
		LeadStatus:      band(lead, 0.01, 0.015),
		ColorStatus:     band(color, 15, 18),
		ColorResult:     colorResult,
	}
}

// band labels v Safe below warn, Warning below fail, Failed otherwise.
func band(v, warn, fail float64) string {
	switch {
	case v < warn:
		return "Safe"
	case v < fail:
		return "Warning"
	default:
		return "Failed"
	}
}

func rangeStatus(v, lo, hi float64) string {
	if v >= lo && v <= hi {
		return "Safe"
	}
	return "Warning"
}
