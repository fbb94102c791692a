package tool

// Definition declares one callable data-query function: its protocol name,
// a description for the model, and a JSON-schema property map for its
// arguments. All arguments are optional; omitted ones use the documented
// defaults applied by the dispatcher.
type Definition struct {
	Name        string
	Description string
	Properties  map[string]any
}

const (
	FuncGetSamplePatients             = "get_sample_patients"
	FuncSearchPatients                = "search_patients"
	FuncGetFacilities                 = "get_facilities"
	FuncGetFacilitiesWithPatientCount = "get_facilities_with_patient_counts"
	FuncGetSystemStats                = "get_system_stats"
	FuncGetPatientCount               = "get_patient_count"
	FuncGetFacilityCount              = "get_facility_count"
)

const (
	defaultSampleCount   = 3
	searchResultCap      = 10
	facilityListCap      = 20
	defaultFacilityLimit = 20
)

func Definitions() []Definition {
	return []Definition{
		{
			Name:        FuncGetSamplePatients,
			Description: "Get sample patient profiles from the healthcare system",
			Properties: map[string]any{
				"count": map[string]any{
					"type":        "integer",
					"description": "Number of sample patients to retrieve, default is 3",
				},
			},
		},
		{
			Name:        FuncSearchPatients,
			Description: "Search patients by name, facility, or other criteria",
			Properties: map[string]any{
				"search_term": map[string]any{
					"type":        "string",
					"description": "Search term for patient name, email, or medical record number",
				},
				"facility_id": map[string]any{
					"type":        "integer",
					"description": "Filter by specific facility ID",
				},
			},
		},
		{
			Name:        FuncGetFacilities,
			Description: "Get list of healthcare facilities with their details",
			Properties: map[string]any{
				"type": map[string]any{
					"type":        "string",
					"description": "Filter by facility type",
					"enum":        []string{"HOSPITAL", "CLINIC", "LAB", "PHARMACY", "OTHER"},
				},
			},
		},
		{
			Name:        FuncGetFacilitiesWithPatientCount,
			Description: "Get facilities with their patient counts for analysis",
			Properties: map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of facilities to return, default is 20",
				},
			},
		},
		{
			Name:        FuncGetSystemStats,
			Description: "Get system statistics including patient counts and facility counts",
			Properties:  map[string]any{},
		},
		{
			Name:        FuncGetPatientCount,
			Description: "Get total number of patients in the system",
			Properties:  map[string]any{},
		},
		{
			Name:        FuncGetFacilityCount,
			Description: "Get total number of facilities in the system",
			Properties:  map[string]any{},
		},
	}
}
