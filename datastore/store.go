package datastore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/caredesk/healthchat/assistant/contract"
)

// Store answers the read-only data-query contract from Postgres. Soft-deleted
// patients and inactive facilities are always excluded, and sensitive patient
// fields are masked before leaving this package.
type Store struct {
	db  *bun.DB
	now func() time.Time
}

var _ contractx.DataQuery = (*Store)(nil)

func NewStore(db *bun.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) SamplePatients(ctx context.Context, count int) ([]contractx.PatientSummary, error) {
	if count <= 0 {
		count = 1
	}

	var patients []Patient
	err := s.db.NewSelect().
		Model(&patients).
		Relation("Facility").
		Where("p.deleted_at IS NULL").
		Order("p.id ASC").
		Limit(count).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select sample patients: %w", err)
	}

	now := s.now()
	summaries := make([]contractx.PatientSummary, 0, len(patients))
	for i := range patients {
		p := &patients[i]
		summaries = append(summaries, contractx.PatientSummary{
			ID:                  p.ID,
			FirstName:           p.FirstName,
			LastName:            p.LastName,
			Facility:            p.facilityName(),
			FacilityType:        p.facilityType(),
			MedicalRecordNumber: maskSensitive(p.MedicalRecordNumber),
			Age:                 ageAt(p.DateOfBirth, now),
			Email:               maskEmail(p.Email),
		})
	}
	return summaries, nil
}

func (s *Store) SearchPatients(ctx context.Context, term string, facilityID *int64, limit int) ([]contractx.PatientMatch, error) {
	if limit <= 0 {
		limit = 1
	}

	q := s.db.NewSelect().
		Model((*Patient)(nil)).
		Relation("Facility").
		Where("p.deleted_at IS NULL").
		Order("p.id ASC").
		Limit(limit)

	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + term + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("p.first_name ILIKE ?", pattern).
				WhereOr("p.last_name ILIKE ?", pattern).
				WhereOr("p.email ILIKE ?", pattern).
				WhereOr("p.medical_record_number ILIKE ?", pattern)
		})
	}
	if facilityID != nil {
		q = q.Where("p.facility_id = ?", *facilityID)
	}

	var patients []Patient
	if err := q.Scan(ctx, &patients); err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}

	matches := make([]contractx.PatientMatch, 0, len(patients))
	for i := range patients {
		p := &patients[i]
		matches = append(matches, contractx.PatientMatch{
			ID:                  p.ID,
			Name:                p.FirstName + " " + p.LastName,
			Facility:            p.facilityName(),
			FacilityType:        p.facilityType(),
			MedicalRecordNumber: maskSensitive(p.MedicalRecordNumber),
		})
	}
	return matches, nil
}

func (s *Store) PatientCount(ctx context.Context) (int64, error) {
	count, err := s.db.NewSelect().
		Model((*Patient)(nil)).
		Where("p.deleted_at IS NULL").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return int64(count), nil
}

func (s *Store) Facilities(ctx context.Context, facilityType string, limit int) ([]contractx.FacilitySummary, error) {
	if limit <= 0 {
		limit = 1
	}

	q := s.db.NewSelect().
		Model((*Facility)(nil)).
		Where("f.is_active").
		Order("f.id ASC").
		Limit(limit)

	if facilityType = strings.TrimSpace(facilityType); facilityType != "" {
		q = q.Where("f.type = ?", strings.ToUpper(facilityType))
	}

	var facilities []Facility
	if err := q.Scan(ctx, &facilities); err != nil {
		return nil, fmt.Errorf("select facilities: %w", err)
	}

	summaries := make([]contractx.FacilitySummary, 0, len(facilities))
	for _, f := range facilities {
		summaries = append(summaries, contractx.FacilitySummary{
			ID:      f.ID,
			Name:    f.Name,
			Type:    f.Type,
			Address: f.Address,
		})
	}
	return summaries, nil
}

func (s *Store) FacilitiesWithPatientCounts(ctx context.Context, limit int) ([]contractx.FacilityLoad, error) {
	if limit <= 0 {
		limit = 1
	}

	var rows []struct {
		ID           int64  `bun:"id"`
		Name         string `bun:"name"`
		Type         string `bun:"type"`
		Address      string `bun:"address"`
		PatientCount int64  `bun:"patient_count"`
	}

	err := s.db.NewSelect().
		Model((*Facility)(nil)).
		Column("f.id", "f.name", "f.type", "f.address").
		ColumnExpr("count(p.id) AS patient_count").
		Join("LEFT JOIN patients AS p ON p.facility_id = f.id AND p.deleted_at IS NULL").
		Where("f.is_active").
		Group("f.id").
		Order("f.id ASC").
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("select facility patient counts: %w", err)
	}

	loads := make([]contractx.FacilityLoad, 0, len(rows))
	for _, row := range rows {
		loads = append(loads, contractx.FacilityLoad{
			ID:           row.ID,
			Name:         row.Name,
			Type:         row.Type,
			PatientCount: row.PatientCount,
			Address:      row.Address,
		})
	}
	return loads, nil
}

func (s *Store) FacilityStats(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Type  string `bun:"type"`
		Count int64  `bun:"count"`
	}

	err := s.db.NewSelect().
		Model((*Facility)(nil)).
		Column("f.type").
		ColumnExpr("count(*) AS count").
		Where("f.is_active").
		Group("f.type").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("facility stats: %w", err)
	}

	stats := make(map[string]int64, len(rows))
	for _, row := range rows {
		stats[row.Type] = row.Count
	}
	return stats, nil
}

func (s *Store) FacilityCount(ctx context.Context) (int64, error) {
	count, err := s.db.NewSelect().
		Model((*Facility)(nil)).
		Where("f.is_active").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count facilities: %w", err)
	}
	return int64(count), nil
}

func (s *Store) SystemStats(ctx context.Context) (contractx.SystemStats, error) {
	totalPatients, err := s.PatientCount(ctx)
	if err != nil {
		return contractx.SystemStats{}, err
	}
	totalFacilities, err := s.FacilityCount(ctx)
	if err != nil {
		return contractx.SystemStats{}, err
	}
	byType, err := s.FacilityStats(ctx)
	if err != nil {
		return contractx.SystemStats{}, err
	}

	average := 0.0
	if totalFacilities > 0 {
		average = float64(totalPatients) / float64(totalFacilities)
	}

	return contractx.SystemStats{
		TotalPatients:              totalPatients,
		TotalFacilities:            totalFacilities,
		FacilitiesByType:           byType,
		AveragePatientsPerFacility: average,
	}, nil
}
