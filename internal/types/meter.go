package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	MeterStatusActive   = "active"
	MeterStatusInactive = "inactive"
)

// DefaultMeterName is the name given to meters the materializer creates on
// demand for metered elements with no matching meter.
const DefaultMeterName = "Main"

type Meter struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID           uuid.UUID `gorm:"type:uuid;not null;index;column:company_id" json:"company_id"`
	Type                string    `gorm:"not null;column:type" json:"type"`
	Name                string    `gorm:"not null;column:name" json:"name"`
	AccountNumber       string    `gorm:"column:account_number" json:"account_number,omitempty"`
	LocationDescription string    `gorm:"column:location_description" json:"location_description,omitempty"`
	Status              string    `gorm:"not null;default:active;column:status" json:"status"`
	IsAutoCreated       bool      `gorm:"not null;default:false;column:is_auto_created" json:"is_auto_created"`
	CreatedAt           time.Time `gorm:"not null" json:"created_at"`
}

func (Meter) TableName() string { return "meter" }
