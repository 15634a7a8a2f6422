package types

import (
	"time"

	"github.com/google/uuid"
)

// ChecklistItem is a company's resolved requirement for one element. The
// whole set is regenerated in place; rows are never patched individually.
type ChecklistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_checklist_company_element;column:company_id" json:"company_id"`
	ElementID  string    `gorm:"not null;uniqueIndex:uq_checklist_company_element;column:element_id" json:"element_id"`
	IsRequired bool      `gorm:"not null;default:true;column:is_required" json:"is_required"`
	Cadence    string    `gorm:"not null;column:cadence" json:"cadence"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (ChecklistItem) TableName() string { return "company_checklist" }
