package repository

import (
	"context"

	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/apperror"
	"portfolio-intelligence/pkg/common"

	"gorm.io/gorm"
)

type gormIntelligenceRepository struct {
	db *gorm.DB
}

// NewGormIntelligenceRepository writes intelligence rows over a direct SQL connection.
func NewGormIntelligenceRepository(db *gorm.DB) IntelligenceRepository {
	return &gormIntelligenceRepository{db: db}
}

func (r *gormIntelligenceRepository) Insert(ctx context.Context, row *entity.DailyIntelligence) error {
	err := r.db.WithContext(ctx).Create(row).Error
	return apperror.NewStoreAccessError(common.StoreOpInsert, common.TableDailyIntelligence, err)
}
