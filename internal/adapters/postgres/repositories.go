package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

type Repositories struct {
	Owners   ports.OwnerRepository
	Apps     ports.AppRepository
	Licenses ports.LicenseRepository
	SubUsers ports.SubUserRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Owners:   &ownerRepository{db: db},
		Apps:     &appRepository{db: db},
		Licenses: &licenseRepository{db: db},
		SubUsers: &subUserRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func toDomainOwner(m ownerModel) domain.Owner {
	return domain.Owner{
		ID:            m.OwnerID,
		Username:      m.Username,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		Token:         m.Token,
		Verified:      m.Verified,
		EmailVerified: m.EmailVerified,
		Banned:        m.Banned,
		Plan:          m.Plan,
		SubTier:       m.SubTier,
		SubExpiresAt:  m.SubExpiresAt,
		CreatedAt:     m.CreatedAt,
	}
}

func toDomainApp(m appModel) domain.App {
	return domain.App{
		ID:        m.AppID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		Secret:    m.Secret,
		Version:   m.Version,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

func toDomainLicense(m licenseModel) domain.License {
	return domain.License{
		ID:        m.LicenseID,
		OwnerID:   m.OwnerID,
		AppID:     m.AppID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		Active:    m.Active,
	}
}

func toDomainSubUser(m subUserModel) domain.SubUser {
	return domain.SubUser{
		ID:           m.UserID,
		OwnerID:      m.OwnerID,
		AppID:        m.AppID,
		LicenseID:    m.LicenseID,
		HWID:         m.HWID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Token:        m.Token,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
	}
}
