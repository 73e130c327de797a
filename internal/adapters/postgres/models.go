package postgres

import (
	"time"

	"github.com/google/uuid"
)

type ownerModel struct {
	OwnerID       uuid.UUID  `gorm:"column:owner_id;type:uuid;primaryKey"`
	Username      string     `gorm:"column:username"`
	Email         string     `gorm:"column:email"`
	PasswordHash  string     `gorm:"column:password_hash"`
	Token         string     `gorm:"column:token"`
	Verified      bool       `gorm:"column:verified"`
	EmailVerified bool       `gorm:"column:email_verified"`
	Banned        bool       `gorm:"column:banned"`
	Plan          string     `gorm:"column:plan"`
	SubTier       int        `gorm:"column:sub_tier"`
	SubExpiresAt  *time.Time `gorm:"column:sub_expires_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (ownerModel) TableName() string { return "owners" }

type appModel struct {
	AppID     uuid.UUID `gorm:"column:app_id;type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"column:owner_id"`
	Name      string    `gorm:"column:name"`
	Secret    string    `gorm:"column:secret"`
	Version   string    `gorm:"column:version"`
	Active    bool      `gorm:"column:active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (appModel) TableName() string { return "apps" }

type licenseModel struct {
	LicenseID uuid.UUID `gorm:"column:license_id;type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"column:owner_id"`
	AppID     uuid.UUID `gorm:"column:app_id"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	Used      bool      `gorm:"column:used"`
	Active    bool      `gorm:"column:active"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (licenseModel) TableName() string { return "licenses" }

type subUserModel struct {
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey"`
	OwnerID      uuid.UUID  `gorm:"column:owner_id"`
	AppID        uuid.UUID  `gorm:"column:app_id"`
	LicenseID    *uuid.UUID `gorm:"column:license_id"`
	HWID         *string    `gorm:"column:hwid"`
	Username     string     `gorm:"column:username"`
	PasswordHash string     `gorm:"column:password_hash"`
	Token        string     `gorm:"column:token"`
	Active       bool       `gorm:"column:active"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (subUserModel) TableName() string { return "sub_users" }
