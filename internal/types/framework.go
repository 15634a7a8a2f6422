package types

const (
	FrameworkTypeMandatory            = "mandatory"
	FrameworkTypeVoluntary            = "voluntary"
	FrameworkTypeMandatoryConditional = "mandatory_conditional"
)

// Well-known framework codes referenced by the resolver rule table.
const (
	FrameworkESG         = "ESG"
	FrameworkDST         = "DST"
	FrameworkDubaiEnergy = "DUBAI_ENERGY"
	FrameworkGreenKey    = "GREEN_KEY"
)

type Framework struct {
	Code        string `gorm:"primaryKey;column:code" json:"code"`
	Name        string `gorm:"not null;column:name" json:"name"`
	Type        string `gorm:"not null;column:type" json:"type"`
	Description string `gorm:"column:description" json:"description"`

	// Populated for mandatory_conditional frameworks; informational only,
	// the resolver rule table is what actually gates assignment.
	ConditionEmirate string `gorm:"column:condition_emirate" json:"condition_emirate,omitempty"`
	ConditionSector  string `gorm:"column:condition_sector" json:"condition_sector,omitempty"`
}

func (Framework) TableName() string { return "framework" }
