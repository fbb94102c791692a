package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/caredesk/healthchat/assistant/contract"
)

// Dispatcher executes supported data-query functions against the data layer.
// It never returns a Go error: unsupported names, bad arguments, and data
// layer failures all come back as ToolResults carrying an error string.
type Dispatcher struct {
	data contractx.DataQuery
}

var _ contractx.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(data contractx.DataQuery) *Dispatcher {
	return &Dispatcher{data: data}
}

func (d *Dispatcher) Supports(function string) bool {
	for _, def := range Definitions() {
		if def.Name == function {
			return true
		}
	}
	return false
}

func (d *Dispatcher) Execute(ctx context.Context, function string, args map[string]any) contractx.ToolResult {
	log.Debug().Str("function", function).Interface("args", args).Msg("executing tool")

	var (
		payload any
		err     error
	)

	switch function {
	case FuncGetSamplePatients:
		payload, err = d.samplePatients(ctx, args)
	case FuncSearchPatients:
		payload, err = d.searchPatients(ctx, args)
	case FuncGetFacilities:
		payload, err = d.facilities(ctx, args)
	case FuncGetFacilitiesWithPatientCount:
		payload, err = d.facilitiesWithPatientCounts(ctx, args)
	case FuncGetSystemStats:
		payload, err = d.data.SystemStats(ctx)
	case FuncGetPatientCount:
		payload, err = d.patientCount(ctx)
	case FuncGetFacilityCount:
		payload, err = d.facilityCount(ctx)
	default:
		return errorResult(function, fmt.Sprintf("Function not implemented: %s", function))
	}

	if err != nil {
		log.Warn().Err(err).Str("function", function).Msg("tool execution failed")
		return errorResult(function, err.Error())
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return errorResult(function, fmt.Sprintf("serialize tool result: %v", err))
	}

	return contractx.ToolResult{Function: function, Payload: raw}
}

func (d *Dispatcher) samplePatients(ctx context.Context, args map[string]any) (any, error) {
	count := intArg(args, "count", defaultSampleCount)
	return d.data.SamplePatients(ctx, count)
}

func (d *Dispatcher) searchPatients(ctx context.Context, args map[string]any) (any, error) {
	term := stringArg(args, "search_term")
	facilityID := int64Arg(args, "facility_id")

	patients, err := d.data.SearchPatients(ctx, term, facilityID, searchResultCap)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"count":    len(patients),
		"patients": patients,
	}, nil
}

func (d *Dispatcher) facilities(ctx context.Context, args map[string]any) (any, error) {
	return d.data.Facilities(ctx, stringArg(args, "type"), facilityListCap)
}

func (d *Dispatcher) facilitiesWithPatientCounts(ctx context.Context, args map[string]any) (any, error) {
	limit := intArg(args, "limit", defaultFacilityLimit)
	return d.data.FacilitiesWithPatientCounts(ctx, limit)
}

func (d *Dispatcher) patientCount(ctx context.Context) (any, error) {
	count, err := d.data.PatientCount(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int64{"patientCount": count}, nil
}

func (d *Dispatcher) facilityCount(ctx context.Context) (any, error) {
	count, err := d.data.FacilityCount(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]int64{"facilityCount": count}, nil
}

func errorResult(function, message string) contractx.ToolResult {
	return contractx.ToolResult{Function: function, Error: message}
}

// Tool arguments arrive as loosely typed JSON values; numbers are float64
// unless the decoder used json.Number.
func intArg(args map[string]any, key string, fallback int) int {
	v, ok := args[key]
	if !ok {
		return fallback
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return fallback
}

func int64Arg(args map[string]any, key string) *int64 {
	v, ok := args[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		id := int64(n)
		return &id
	case int:
		id := int64(n)
		return &id
	case int64:
		return &n
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return &i
		}
	}
	return nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
