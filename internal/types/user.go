package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin        = "admin"
	RoleSiteManager  = "site_manager"
	RoleUploader     = "uploader"
	RoleViewer       = "viewer"
	RoleMeterManager = "meter_manager"
)

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string     `gorm:"not null;column:password" json:"-"`
	FirstName string     `gorm:"column:first_name" json:"first_name"`
	LastName  string     `gorm:"column:last_name" json:"last_name"`
	Role      string     `gorm:"not null;default:viewer;column:role" json:"role"`
	CompanyID *uuid.UUID `gorm:"type:uuid;column:company_id" json:"company_id,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
