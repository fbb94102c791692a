package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/caredesk/healthchat/assistant/contract"
)

// StatsShortcut answers statistic and count queries straight from the data
// layer, before the provider chain is consulted. It is off by default so the
// providers stay authoritative; a miss or failure falls through silently.
type StatsShortcut struct {
	data contractx.DataQuery
}

func NewStatsShortcut(data contractx.DataQuery) *StatsShortcut {
	return &StatsShortcut{data: data}
}

func (s *StatsShortcut) TryAnswer(ctx context.Context, query contractx.Query) (contractx.Answer, bool) {
	text := strings.ToLower(query.Text)
	if !strings.Contains(text, "statistic") &&
		!strings.Contains(text, "count") &&
		!strings.Contains(text, "how many") {
		return contractx.Answer{}, false
	}

	stats, err := s.data.SystemStats(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("stats shortcut failed, deferring to providers")
		return contractx.Answer{}, false
	}

	answer := contractx.NewAnswer(fmt.Sprintf(
		"Here are the current system statistics:\n\n"+
			"- Total Patients: %d\n"+
			"- Total Facilities: %d\n"+
			"- Average Patients per Facility: %.1f",
		stats.TotalPatients, stats.TotalFacilities, stats.AveragePatientsPerFacility,
	), contractx.SourceDatabase, stats)
	answer.SessionID = query.SessionID
	answer.Metadata = map[string]any{"facilitiesByType": stats.FacilitiesByType}
	return answer, true
}
