package types

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentRule routes newly materialized submissions to a responsible
// user. Rules are scoped to one element or to a whole ESG category;
// element-level rules win over category-level ones.
type AssignmentRule struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index;column:company_id" json:"company_id"`

	ElementID string `gorm:"column:element_id" json:"element_id,omitempty"`
	Category  string `gorm:"column:category" json:"category,omitempty"`

	AssignedToID uuid.UUID `gorm:"type:uuid;not null;column:assigned_to_id" json:"assigned_to_id"`
	AssignedByID uuid.UUID `gorm:"type:uuid;not null;column:assigned_by_id" json:"assigned_by_id"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (AssignmentRule) TableName() string { return "assignment_rule" }
