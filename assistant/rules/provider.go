package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/caredesk/healthchat/assistant/contract"
)

const (
	providerName = "local-rules"

	sampleCount    = 3
	facilityLimit  = 10
	searchLimit    = 5
	apologyMessage = "I encountered an error while processing your request. Please try again."
)

// Provider is the deterministic fallback. It classifies the query text with
// ordered keyword rules, first match wins, and answers from the data layer
// without any remote calls.
type Provider struct {
	data contractx.DataQuery
}

var _ contractx.Provider = (*Provider)(nil)

func New(data contractx.DataQuery) *Provider {
	return &Provider{data: data}
}

func (p *Provider) Name() string { return providerName }

// Enabled is always true; the rule-based provider is the guaranteed fallback.
func (p *Provider) Enabled() bool { return true }

// Health is always HEALTHY; there is no external dependency that can degrade.
func (p *Provider) Health() contractx.Health { return contractx.HealthHealthy }

func (p *Provider) ProcessQuery(ctx context.Context, query contractx.Query) (contractx.Answer, error) {
	text := strings.ToLower(strings.TrimSpace(query.Text))
	log.Debug().Str("provider", providerName).Str("query", text).Msg("classifying query")

	var (
		answer contractx.Answer
		err    error
	)

	switch {
	case containsAny(text, "sample", "example", "show me patient"):
		answer, err = p.samplePatients(ctx)
	case containsAny(text, "analyze", "distribution", "analysis"):
		answer, err = p.analysis(ctx, text)
	case containsAny(text, "facility", "hospital", "clinic"):
		answer, err = p.facilities(ctx, text)
	case containsAny(text, "stat", "count", "how many"):
		answer, err = p.statistics(ctx)
	case strings.Contains(text, "search") && strings.Contains(text, "patient"):
		answer, err = p.patientSearch(ctx, text)
	case strings.Contains(text, "help"):
		answer = contractx.NewAnswer(helpText, contractx.SourceRuleBased, nil)
	default:
		answer = contractx.NewAnswer(generalText, contractx.SourceRuleBased, nil)
	}

	if err != nil {
		log.Error().Err(err).Str("provider", providerName).Msg("rule-based answer failed")
		return contractx.ErrorAnswer(apologyMessage), nil
	}
	return answer, nil
}

func (p *Provider) samplePatients(ctx context.Context) (contractx.Answer, error) {
	patients, err := p.data.SamplePatients(ctx, sampleCount)
	if err != nil {
		return contractx.Answer{}, err
	}

	if len(patients) == 0 {
		return contractx.NewAnswer(
			"I don't have any sample patient profiles available at the moment. "+
				"You can add patients using the POST /api/patients endpoint.",
			contractx.SourceRuleBased, nil), nil
	}

	answer := fmt.Sprintf(
		"Here are %d sample patient profiles from our system.\n\n"+
			"For more detailed patient information, you can use:\n"+
			"- GET /api/patients - List all patients\n"+
			"- GET /api/patients/{id} - Get specific patient details",
		len(patients))

	return contractx.NewAnswer(answer, contractx.SourceRuleBased, patients), nil
}

func (p *Provider) analysis(ctx context.Context, text string) (contractx.Answer, error) {
	if !strings.Contains(text, "patient distribution") && !strings.Contains(text, "facility type") {
		return contractx.NewAnswer(analysisGuidanceText, contractx.SourceRuleBased, nil), nil
	}

	stats, err := p.data.SystemStats(ctx)
	if err != nil {
		return contractx.Answer{}, err
	}

	var b strings.Builder
	b.WriteString("**Patient Distribution Analysis**\n\n")
	fmt.Fprintf(&b, "- Total Patients: %d\n", stats.TotalPatients)
	fmt.Fprintf(&b, "- Total Facilities: %d\n", stats.TotalFacilities)
	fmt.Fprintf(&b, "- Average Patients per Facility: %.1f\n\n", stats.AveragePatientsPerFacility)
	b.WriteString("**Facilities by Type:**\n")
	for facilityType, count := range stats.FacilitiesByType {
		fmt.Fprintf(&b, "- %s: %d facilities\n", facilityType, count)
	}

	return contractx.NewAnswer(b.String(), contractx.SourceRuleBased, stats), nil
}

func (p *Provider) facilities(ctx context.Context, text string) (contractx.Answer, error) {
	facilityType := extractFacilityType(text)

	facilities, err := p.data.Facilities(ctx, facilityType, facilityLimit)
	if err != nil {
		return contractx.Answer{}, err
	}

	typeText := ""
	if facilityType != "" {
		typeText = strings.ToLower(facilityType) + " "
	}
	answer := fmt.Sprintf(
		"Here are the %sfacilities in our system.\n\n"+
			"Use these endpoints for facility management:\n"+
			"- GET /api/facilities - List all facilities\n"+
			"- GET /api/facilities/{id}/patients - Get patients by facility",
		typeText)

	return contractx.NewAnswer(answer, contractx.SourceRuleBased, facilities), nil
}

func (p *Provider) statistics(ctx context.Context) (contractx.Answer, error) {
	stats, err := p.data.SystemStats(ctx)
	if err != nil {
		return contractx.Answer{}, err
	}

	answer := fmt.Sprintf(
		"**Healthcare System Statistics**\n\n"+
			"- Total Patients: %d\n"+
			"- Total Facilities: %d\n"+
			"- Average Patients per Facility: %.1f\n\n"+
			"The system is actively managing healthcare data.",
		stats.TotalPatients, stats.TotalFacilities, stats.AveragePatientsPerFacility)

	return contractx.NewAnswer(answer, contractx.SourceRuleBased, stats), nil
}

func (p *Provider) patientSearch(ctx context.Context, text string) (contractx.Answer, error) {
	term := extractSearchTerm(text)

	patients, err := p.data.SearchPatients(ctx, term, nil, searchLimit)
	if err != nil {
		return contractx.Answer{}, err
	}

	answer := fmt.Sprintf(
		"Found %d patients matching your search.\n\n"+
			"For advanced search, use:\nGET /api/patients?search=%s",
		len(patients), term)

	return contractx.NewAnswer(answer, contractx.SourceRuleBased, patients), nil
}

func extractFacilityType(text string) string {
	switch {
	case strings.Contains(text, "hospital"):
		return "HOSPITAL"
	case strings.Contains(text, "clinic"):
		return "CLINIC"
	case strings.Contains(text, "lab"):
		return "LAB"
	case strings.Contains(text, "pharmacy"):
		return "PHARMACY"
	}
	return ""
}

func extractSearchTerm(text string) string {
	if idx := strings.Index(text, "named"); idx >= 0 {
		return strings.TrimSpace(text[idx+len("named"):])
	}
	if idx := strings.Index(text, "search for"); idx >= 0 {
		return strings.TrimSpace(text[idx+len("search for"):])
	}
	return "patient"
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

const helpText = `**Healthcare Management Assistant**

I can help you with:

**Patient Information:**
- "Show sample patient profiles"
- "Search for patients"
- "Patient statistics"

**Facility Information:**
- "List hospitals/clinics"
- "Facility analysis"
- "Patient distribution"

**Example Queries:**
- "List sample patient profiles"
- "Analyze patient distribution"
- "How many facilities are there?"
- "Show me all hospitals"`

const generalText = `I'm your healthcare management assistant. I can help you query:
- Patient records and profiles
- Healthcare facilities
- System statistics and analysis

Try asking about:
- "Sample patient profiles"
- "Healthcare facilities"
- "System statistics"
- Or type "help" for more options`

const analysisGuidanceText = `**Analysis Capabilities**

I can help analyze:
- Patient distribution across facilities
- Facility capacity and utilization
- System-wide healthcare metrics

Try these analysis queries:
- "Analyze patient distribution by facility type"
- "Facility capacity analysis"
- "Patient load distribution"`
