package contract

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Source identifies which provider produced an Answer.
type Source string

const (
	SourceRemote       Source = "remote"
	SourceRemoteDirect Source = "remote_direct"
	SourceRuleBased    Source = "rules"
	SourceDatabase     Source = "database"
	SourceSystem       Source = "system"
	SourceError        Source = "error"
)

const maxQueryLength = 1000

// Query is a single natural-language question about the system's data.
// It is immutable once constructed.
type Query struct {
	Text      string         `json:"query"`
	SessionID string         `json:"sessionId,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

func (q Query) Validate() error {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return ErrEmptyQuery
	}
	if utf8.RuneCountInString(q.Text) > maxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// Answer is the single response produced for a Query.
type Answer struct {
	Text      string         `json:"answer,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	Source    Source         `json:"source"`
	Data      any            `json:"data,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (a Answer) IsError() bool {
	return a.Error != ""
}

func NewAnswer(text string, source Source, data any) Answer {
	return Answer{
		Text:      text,
		Source:    source,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func ErrorAnswer(message string) Answer {
	return Answer{
		Error:     message,
		Source:    SourceError,
		Timestamp: time.Now().UTC(),
	}
}

// ToolCall is a single tool invocation requested by the remote model.
// It is constructed from a remote response and consumed once.
type ToolCall struct {
	ID       string         `json:"id"`
	Function string         `json:"function"`
	Args     map[string]any `json:"args,omitempty"`
}

// ProviderStatus is a point-in-time view of one provider, reported by the
// orchestrator's status operation.
type ProviderStatus struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Health  string `json:"health"`
}

// PatientSummary is a patient record as surfaced to providers. The medical
// record number and email are already masked by the data layer.
type PatientSummary struct {
	ID                  int64  `json:"id"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Facility            string `json:"facility"`
	FacilityType        string `json:"facilityType"`
	MedicalRecordNumber string `json:"medicalRecordNumber"`
	Age                 int    `json:"age"`
	Email               string `json:"email"`
}

// PatientMatch is the compact shape returned by patient searches.
type PatientMatch struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Facility            string `json:"facility"`
	FacilityType        string `json:"facilityType"`
	MedicalRecordNumber string `json:"medicalRecordNumber"`
}

type FacilitySummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// FacilityLoad is a facility together with its active patient count.
type FacilityLoad struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	PatientCount int64  `json:"patientCount"`
	Address      string `json:"address"`
}

type SystemStats struct {
	TotalPatients              int64            `json:"totalPatients"`
	TotalFacilities            int64            `json:"totalFacilities"`
	FacilitiesByType           map[string]int64 `json:"facilitiesByType"`
	AveragePatientsPerFacility float64          `json:"averagePatientsPerFacility"`
}
