package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

type licenseRepository struct {
	db *gorm.DB
}

func (r *licenseRepository) Create(ctx context.Context, license domain.License) error {
	rec := licenseModel{
		LicenseID: license.ID,
		OwnerID:   license.OwnerID,
		AppID:     license.AppID,
		Name:      license.Name,
		CreatedAt: license.CreatedAt,
		ExpiresAt: license.ExpiresAt,
		Used:      license.Used,
		Active:    license.Active,
		UpdatedAt: license.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *licenseRepository) GetByID(ctx context.Context, licenseID uuid.UUID) (domain.License, error) {
	var rec licenseModel
	if err := r.db.WithContext(ctx).Where("license_id = ?", licenseID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.License{}, domain.ErrNotFound
		}
		return domain.License{}, err
	}
	return toDomainLicense(rec), nil
}

func (r *licenseRepository) GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (domain.License, error) {
	var rec licenseModel
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND name = ?", ownerID, name).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.License{}, domain.ErrNotFound
		}
		return domain.License{}, err
	}
	return toDomainLicense(rec), nil
}

func (r *licenseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.License, error) {
	var recs []licenseModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	licenses := make([]domain.License, 0, len(recs))
	for _, rec := range recs {
		licenses = append(licenses, toDomainLicense(rec))
	}
	return licenses, nil
}

func (r *licenseRepository) UpdateExpiry(ctx context.Context, licenseID uuid.UUID, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&licenseModel{}).
		Where("license_id = ?", licenseID).
		Updates(map[string]any{"expires_at": expiresAt, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Redeem consumes the license and creates the bound sub-user in one
// transaction. The used flag is flipped with a conditional update and
// the affected-row count is checked, so of two racing redemptions only
// one can pass; the sub-user insert failing rolls the flag back.
func (r *licenseRepository) Redeem(ctx context.Context, licenseID uuid.UUID, user domain.SubUser) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&licenseModel{}).
			Where("license_id = ? AND used = ?", licenseID, false).
			Updates(map[string]any{"used": true, "updated_at": user.CreatedAt})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrLicenseUsed
		}

		rec := subUserModel{
			UserID:       user.ID,
			OwnerID:      user.OwnerID,
			AppID:        user.AppID,
			LicenseID:    user.LicenseID,
			HWID:         user.HWID,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			Token:        user.Token,
			Active:       user.Active,
			CreatedAt:    user.CreatedAt,
			UpdatedAt:    user.CreatedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return nil
	})
}

func (r *licenseRepository) Delete(ctx context.Context, licenseID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("license_id = ?", licenseID).Delete(&licenseModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
