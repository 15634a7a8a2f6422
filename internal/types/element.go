package types

import (
	"encoding/json"

	"gorm.io/datatypes"
)

const (
	RequirementMandatory   = "mandatory"
	RequirementConditional = "conditional"
)

// The cadence set is closed. Event cadences surface once a year alongside
// annual items rather than on their own calendar.
const (
	CadenceMonthly          = "monthly"
	CadenceAnnual           = "annual"
	CadenceDaily            = "daily"
	CadenceOnInstallation   = "on_installation"
	CadenceOnPurchase       = "on_purchase"
	CadenceOnChange         = "on_change"
	CadenceOnMenuChange     = "on_menu_change"
	CadenceOnImplementation = "on_implementation"
)

// AnnualReportingMonth is the designated month in which annual and
// event-based items are due.
const AnnualReportingMonth = 12

const (
	CategoryEnvironmental = "environmental"
	CategorySocial        = "social"
	CategoryGovernance    = "governance"
)

// DataElement is immutable reference data owned by the catalog. Companies
// reference elements, they never own or mutate them.
type DataElement struct {
	ElementID   string `gorm:"primaryKey;column:element_id" json:"element_id"`
	Name        string `gorm:"not null;column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	Category    string `gorm:"column:category" json:"category"`

	RequirementType string `gorm:"not null;column:requirement_type" json:"requirement_type"`
	Cadence         string `gorm:"column:cadence" json:"cadence"`
	IsMetered       bool   `gorm:"not null;default:false;column:is_metered" json:"is_metered"`

	// MeterType is the authoritative meter-type label for metered elements.
	// Name-based keyword matching exists only as a fallback for catalog rows
	// imported without one.
	MeterType string `gorm:"column:meter_type" json:"meter_type,omitempty"`

	Unit string `gorm:"column:unit" json:"unit,omitempty"`

	// Frameworks is a JSON array of framework codes that require this element.
	Frameworks datatypes.JSON `gorm:"column:frameworks" json:"frameworks"`

	// ConditionLogic names the gating condition for conditional elements.
	// Empty means the element has no profiling question.
	ConditionLogic string `gorm:"column:condition_logic" json:"condition_logic,omitempty"`

	// IsLegacy marks superseded catalog rows. Legacy elements never match,
	// regardless of framework overlap.
	IsLegacy bool `gorm:"not null;default:false;column:is_legacy" json:"is_legacy"`
}

func (DataElement) TableName() string { return "data_element" }

func (e *DataElement) FrameworkCodes() []string {
	if len(e.Frameworks) == 0 {
		return nil
	}
	var codes []string
	if err := json.Unmarshal(e.Frameworks, &codes); err != nil {
		return nil
	}
	return codes
}

func (e *DataElement) SetFrameworkCodes(codes []string) error {
	raw, err := json.Marshal(codes)
	if err != nil {
		return err
	}
	e.Frameworks = datatypes.JSON(raw)
	return nil
}

// CadenceAppliesToMonth implements cadence-to-calendar gating: monthly and
// daily items recur every month, everything else (annual and the event
// cadences) is due only in the designated reporting month.
func CadenceAppliesToMonth(cadence string, month int) bool {
	switch cadence {
	case CadenceMonthly, CadenceDaily:
		return true
	default:
		return month == AnnualReportingMonth
	}
}
