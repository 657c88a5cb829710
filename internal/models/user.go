package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	Username     string           `gorm:"size:150;uniqueIndex;not null" json:"username"`
	PasswordHash string           `gorm:"not null" json:"-"`
	IsActive     bool             `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser  bool             `gorm:"not null;default:false" json:"is_superuser"`
	Capabilities []UserCapability `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"capabilities,omitempty"`
}

// BeforeCreate assigns an id when the caller did not.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserCapability grants a single named capability, e.g. "recipes.add_recipe".
type UserCapability struct {
	ID       uint      `gorm:"primarykey" json:"-"`
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_capability" json:"-"`
	Codename string    `gorm:"size:100;not null;uniqueIndex:idx_user_capability" json:"codename"`
}
