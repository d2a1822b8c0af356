package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"waterwatch/internal/modules/water/types"
)

// payload keeps the decoded object untyped so an absent key, an explicit null
// and a zero can be told apart.
type payload map[string]any

func decodePayload(body []byte) (payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &types.Error{Code: types.CodeInvalidPayload, Message: "Invalid JSON data", Err: err}
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, types.NewError(types.CodeInvalidPayload, "Invalid JSON data: trailing content after object")
	}

	obj, ok := v.(map[string]any)
	if !ok || len(obj) == 0 {
		return nil, types.NewError(types.CodeInvalidPayload, "Invalid JSON data")
	}
	return payload(obj), nil
}

func (p payload) sensorID() (string, error) {
	var id string
	switch v := p[types.FieldSensorID].(type) {
	case string:
		id = v
	case json.Number:
		id = v.String()
	case nil:
	default:
		return "", types.NewError(types.CodeInvalidPayload, fmt.Sprintf("%s must be a string", types.FieldSensorID))
	}
	if id == "" {
		return "", types.NewError(types.CodeMissingField, "Sensor ID is required")
	}
	return id, nil
}

func (p payload) measurements() (types.Measurements, error) {
	var (
		m   types.Measurements
		err error
	)
	numeric := []struct {
		field string
		dst   **float64
	}{
		{types.FieldTDS, &m.TDS},
		{types.FieldPH, &m.PH},
		{types.FieldTurbidity, &m.Turbidity},
		{types.FieldLead, &m.Lead},
		{types.FieldColor, &m.Color},
	}
	for _, f := range numeric {
		if *f.dst, err = p.number(f.field); err != nil {
			return types.Measurements{}, err
		}
	}

	text := []struct {
		field string
		dst   *string
	}{
		{types.FieldTDSStatus, &m.TDSStatus},
		{types.FieldPHStatus, &m.PHStatus},
		{types.FieldTurbidityStatus, &m.TurbidityStatus},
		{types.FieldLeadStatus, &m.LeadStatus},
		{types.FieldColorStatus, &m.ColorStatus},
		{types.FieldColorResult, &m.ColorResult},
	}
	for _, f := range text {
		if *f.dst, err = p.status(f.field); err != nil {
			return types.Measurements{}, err
		}
	}
	return m, nil
}

// number returns nil for an absent or null field. Numeric strings are
// accepted; anything else is rejected.
func (p payload) number(field string) (*float64, error) {
	var s string
	switch v := p[field].(type) {
	case nil:
		return nil, nil
	case json.Number:
		s = v.String()
	case string:
		s = strings.TrimSpace(v)
	default:
		return nil, invalidField(field, "must be a number")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, invalidField(field, "must be a number")
	}
	return &f, nil
}

func (p payload) status(field string) (string, error) {
	switch v := p[field].(type) {
	case nil:
		return types.StatusUnknown, nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", invalidField(field, "must be a string")
	}
}

func invalidField(field, reason string) *types.Error {
	return types.NewError(types.CodeInvalidPayload, fmt.Sprintf("Invalid value for %s: %s", field, reason))
}
