package types

import (
	"time"

	"github.com/google/uuid"
)

// ProfilingQuestion is a yes/no question tied to exactly one conditional
// element it activates. Shared reference data, like DataElement.
type ProfilingQuestion struct {
	QuestionID         string `gorm:"primaryKey;column:question_id" json:"question_id"`
	Text               string `gorm:"not null;column:text" json:"text"`
	ActivatesElementID string `gorm:"not null;column:activates_element_id" json:"activates_element_id"`
	Order              int    `gorm:"not null;default:0;column:question_order" json:"order"`
}

func (ProfilingQuestion) TableName() string { return "profiling_question" }

type ProfileAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_answer_company_question;column:company_id" json:"company_id"`
	QuestionID string    `gorm:"not null;uniqueIndex:uq_answer_company_question;column:question_id" json:"question_id"`
	Answer     bool      `gorm:"not null;column:answer" json:"answer"`
	AnsweredAt time.Time `gorm:"not null;column:answered_at" json:"answered_at"`
}

func (ProfileAnswer) TableName() string { return "profile_answer" }
