package contract

import (
	"context"
	"encoding/json"
)

// Provider answers natural-language queries. Implementations report failures
// through the error return; the orchestrator treats any error as "try the
// next provider".
type Provider interface {
	ProcessQuery(ctx context.Context, query Query) (Answer, error)
	Name() string
	Enabled() bool
	Health() Health
}

// Dispatcher executes a named data-query function on behalf of the remote
// provider. It never returns a Go error; failures are carried inside the
// ToolResult.
type Dispatcher interface {
	Execute(ctx context.Context, function string, args map[string]any) ToolResult
	Supports(function string) bool
}

// ToolResult is the outcome of one dispatched tool call. Exactly one of
// Payload and Error is set.
type ToolResult struct {
	Function string          `json:"function"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// Content renders the result as the JSON string fed back to the remote model
// in the second protocol round.
func (r ToolResult) Content() string {
	if r.Error != "" {
		raw, err := json.Marshal(map[string]string{"error": r.Error})
		if err != nil {
			return `{"error":"tool execution failed"}`
		}
		return string(raw)
	}
	return string(r.Payload)
}

// DataQuery is the read-only contract over the underlying business data.
// Implementations must be safe for concurrent use and must mask sensitive
// patient fields before returning records.
type DataQuery interface {
	SamplePatients(ctx context.Context, count int) ([]PatientSummary, error)
	SearchPatients(ctx context.Context, term string, facilityID *int64, limit int) ([]PatientMatch, error)
	PatientCount(ctx context.Context) (int64, error)

	Facilities(ctx context.Context, facilityType string, limit int) ([]FacilitySummary, error)
	FacilitiesWithPatientCounts(ctx context.Context, limit int) ([]FacilityLoad, error)
	FacilityStats(ctx context.Context) (map[string]int64, error)
	FacilityCount(ctx context.Context) (int64, error)

	SystemStats(ctx context.Context) (SystemStats, error)
}
