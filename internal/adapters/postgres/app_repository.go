package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

type appRepository struct {
	db *gorm.DB
}

func (r *appRepository) Create(ctx context.Context, app domain.App) error {
	rec := appModel{
		AppID:     app.ID,
		OwnerID:   app.OwnerID,
		Name:      app.Name,
		Secret:    app.Secret,
		Version:   app.Version,
		Active:    app.Active,
		CreatedAt: app.CreatedAt,
		UpdatedAt: app.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *appRepository) GetByID(ctx context.Context, appID uuid.UUID) (domain.App, error) {
	var rec appModel
	if err := r.db.WithContext(ctx).Where("app_id = ?", appID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.App{}, domain.ErrNotFound
		}
		return domain.App{}, err
	}
	return toDomainApp(rec), nil
}

func (r *appRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.App, error) {
	var recs []appModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	apps := make([]domain.App, 0, len(recs))
	for _, rec := range recs {
		apps = append(apps, toDomainApp(rec))
	}
	return apps, nil
}

func (r *appRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&appModel{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *appRepository) Rename(ctx context.Context, appID uuid.UUID, name string) error {
	res := r.db.WithContext(ctx).
		Model(&appModel{}).
		Where("app_id = ?", appID).
		Updates(map[string]any{"name": name, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return domain.ErrConflict
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *appRepository) Update(ctx context.Context, appID uuid.UUID, version *string, active *bool) error {
	fields := map[string]any{"updated_at": time.Now().UTC()}
	if version != nil {
		fields["version"] = *version
	}
	if active != nil {
		fields["active"] = *active
	}
	res := r.db.WithContext(ctx).
		Model(&appModel{}).
		Where("app_id = ?", appID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the app and everything scoped to it in one
// transaction, so a crash cannot strand orphaned licenses or sub-users.
func (r *appRepository) Delete(ctx context.Context, appID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("app_id = ?", appID).Delete(&subUserModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("app_id = ?", appID).Delete(&licenseModel{}).Error; err != nil {
			return err
		}
		res := tx.Where("app_id = ?", appID).Delete(&appModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}
