package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

type ownerRepository struct {
	db *gorm.DB
}

func (r *ownerRepository) Create(ctx context.Context, owner domain.Owner) error {
	rec := ownerModel{
		OwnerID:       owner.ID,
		Username:      owner.Username,
		Email:         owner.Email,
		PasswordHash:  owner.PasswordHash,
		Token:         owner.Token,
		Verified:      owner.Verified,
		EmailVerified: owner.EmailVerified,
		Banned:        owner.Banned,
		Plan:          owner.Plan,
		SubTier:       owner.SubTier,
		SubExpiresAt:  owner.SubExpiresAt,
		CreatedAt:     owner.CreatedAt,
		UpdatedAt:     owner.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *ownerRepository) GetByID(ctx context.Context, ownerID uuid.UUID) (domain.Owner, error) {
	return r.getWhere(ctx, "owner_id = ?", ownerID)
}

func (r *ownerRepository) GetByEmail(ctx context.Context, email string) (domain.Owner, error) {
	return r.getWhere(ctx, "email = ?", email)
}

func (r *ownerRepository) GetByToken(ctx context.Context, token string) (domain.Owner, error) {
	return r.getWhere(ctx, "token = ?", token)
}

func (r *ownerRepository) getWhere(ctx context.Context, query string, arg any) (domain.Owner, error) {
	var rec ownerModel
	if err := r.db.WithContext(ctx).Where(query, arg).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Owner{}, domain.ErrNotFound
		}
		return domain.Owner{}, err
	}
	return toDomainOwner(rec), nil
}

func (r *ownerRepository) List(ctx context.Context) ([]domain.Owner, error) {
	var recs []ownerModel
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	owners := make([]domain.Owner, 0, len(recs))
	for _, rec := range recs {
		owners = append(owners, toDomainOwner(rec))
	}
	return owners, nil
}

func (r *ownerRepository) SetVerified(ctx context.Context, ownerID uuid.UUID, verified bool, at time.Time) error {
	return r.updateFields(ctx, ownerID, map[string]any{"verified": verified, "updated_at": at})
}

func (r *ownerRepository) SetEmailVerified(ctx context.Context, ownerID uuid.UUID, verified bool, at time.Time) error {
	return r.updateFields(ctx, ownerID, map[string]any{"email_verified": verified, "updated_at": at})
}

func (r *ownerRepository) UpdateEmail(ctx context.Context, ownerID uuid.UUID, email string, at time.Time) error {
	// A changed address always restarts secondary verification.
	err := r.updateFields(ctx, ownerID, map[string]any{
		"email":          email,
		"email_verified": false,
		"updated_at":     at,
	})
	if err != nil && isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *ownerRepository) UpdatePassword(ctx context.Context, ownerID uuid.UUID, passwordHash string, at time.Time) error {
	return r.updateFields(ctx, ownerID, map[string]any{"password_hash": passwordHash, "updated_at": at})
}

func (r *ownerRepository) SetBanned(ctx context.Context, ownerID uuid.UUID, banned bool, at time.Time) error {
	return r.updateFields(ctx, ownerID, map[string]any{"banned": banned, "updated_at": at})
}

func (r *ownerRepository) Delete(ctx context.Context, ownerID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&ownerModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ownerRepository) updateFields(ctx context.Context, ownerID uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&ownerModel{}).
		Where("owner_id = ?", ownerID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
