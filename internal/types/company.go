package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EmirateDubai        = "dubai"
	EmirateAbuDhabi     = "abu_dhabi"
	EmirateSharjah      = "sharjah"
	EmirateAjman        = "ajman"
	EmirateUmmAlQuwain  = "umm_al_quwain"
	EmirateRasAlKhaimah = "ras_al_khaimah"
	EmirateFujairah     = "fujairah"
)

const (
	SectorHospitality       = "hospitality"
	SectorRealEstate        = "real_estate"
	SectorFinancialServices = "financial_services"
	SectorManufacturing     = "manufacturing"
	SectorTechnology        = "technology"
	SectorHealthcare        = "healthcare"
	SectorEducation         = "education"
	SectorRetail            = "retail"
)

type Company struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"not null;column:name" json:"name"`
	Code    string    `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Emirate string    `gorm:"not null;column:emirate" json:"emirate"`
	Sector  string    `gorm:"not null;column:sector" json:"sector"`

	HasGreenKey bool `gorm:"not null;default:false;column:has_green_key" json:"has_green_key"`

	// ActiveFrameworks is a cached JSON array of framework codes. It is a
	// derived value: the framework resolver is the source of truth and
	// rewrites this column whenever the profile fields above change.
	ActiveFrameworks datatypes.JSON `gorm:"column:active_frameworks" json:"active_frameworks"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Company) TableName() string { return "company" }

// ActiveFrameworkCodes decodes the cached framework code list. An empty or
// malformed cache decodes to nil, which callers treat as "not yet resolved".
func (c *Company) ActiveFrameworkCodes() []string {
	if len(c.ActiveFrameworks) == 0 {
		return nil
	}
	var codes []string
	if err := json.Unmarshal(c.ActiveFrameworks, &codes); err != nil {
		return nil
	}
	return codes
}

func (c *Company) SetActiveFrameworkCodes(codes []string) error {
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	c.ActiveFrameworks = datatypes.JSON(raw)
	return nil
}

// HasResolvableProfile reports whether the profile fields the framework
// rules read are populated.
func (c *Company) HasResolvableProfile() bool {
	return c.Emirate != "" && c.Sector != ""
}

type Site struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_site_company_name;column:company_id" json:"company_id"`
	Name      string    `gorm:"not null;uniqueIndex:uq_site_company_name;column:name" json:"name"`
	Location  string    `gorm:"column:location" json:"location"`
	Address   string    `gorm:"column:address" json:"address"`
	IsActive  bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Site) TableName() string { return "site" }
