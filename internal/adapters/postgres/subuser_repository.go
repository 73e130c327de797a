package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

type subUserRepository struct {
	db *gorm.DB
}

func (r *subUserRepository) Create(ctx context.Context, user domain.SubUser) error {
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
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *subUserRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.SubUser, error) {
	var rec subUserModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubUser{}, domain.ErrNotFound
		}
		return domain.SubUser{}, err
	}
	return toDomainSubUser(rec), nil
}

func (r *subUserRepository) GetByLicense(ctx context.Context, licenseID, ownerID uuid.UUID) (domain.SubUser, error) {
	var rec subUserModel
	if err := r.db.WithContext(ctx).Where("license_id = ? AND owner_id = ?", licenseID, ownerID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubUser{}, domain.ErrNotFound
		}
		return domain.SubUser{}, err
	}
	return toDomainSubUser(rec), nil
}

func (r *subUserRepository) GetByUsername(ctx context.Context, ownerID uuid.UUID, username string) (domain.SubUser, error) {
	var rec subUserModel
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND username = ?", ownerID, username).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SubUser{}, domain.ErrNotFound
		}
		return domain.SubUser{}, err
	}
	return toDomainSubUser(rec), nil
}

func (r *subUserRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.SubUser, error) {
	var recs []subUserModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	users := make([]domain.SubUser, 0, len(recs))
	for _, rec := range recs {
		users = append(users, toDomainSubUser(rec))
	}
	return users, nil
}

func (r *subUserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&subUserModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
