package datastore

import (
	"time"

	"github.com/uptrace/bun"
)

type Patient struct {
	bun.BaseModel `bun:"table:patients,alias:p"`

	ID                  int64      `bun:"id,pk,autoincrement"`
	FacilityID          int64      `bun:"facility_id,notnull"`
	Facility            *Facility  `bun:"rel:belongs-to,join:facility_id=id"`
	FirstName           string     `bun:"first_name,notnull"`
	LastName            string     `bun:"last_name,notnull"`
	Email               string     `bun:"email"`
	Phone               string     `bun:"phone"`
	DateOfBirth         time.Time  `bun:"date_of_birth,notnull"`
	Gender              string     `bun:"gender"`
	MedicalRecordNumber string     `bun:"medical_record_number"`
	Address             string     `bun:"address"`
	CreatedAt           time.Time  `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt           time.Time  `bun:"updated_at,nullzero,default:current_timestamp"`
	DeletedAt           *time.Time `bun:"deleted_at"`
}

type Facility struct {
	bun.BaseModel `bun:"table:facilities,alias:f"`

	ID        int64      `bun:"id,pk,autoincrement"`
	Name      string     `bun:"name,notnull"`
	Type      string     `bun:"type,notnull"`
	Address   string     `bun:"address"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp"`
	DeletedAt *time.Time `bun:"deleted_at"`
	IsActive  bool       `bun:"is_active,default:true"`
}

func (p *Patient) facilityName() string {
	if p.Facility == nil {
		return ""
	}
	return p.Facility.Name
}

func (p *Patient) facilityType() string {
	if p.Facility == nil {
		return ""
	}
	return p.Facility.Type
}
