package repository

import (
	"context"

	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/apperror"
	"portfolio-intelligence/pkg/common"

	"gorm.io/gorm"
)

type gormPortfolioRepository struct {
	db *gorm.DB
}

// NewGormPortfolioRepository reads the portfolio over a direct SQL connection.
func NewGormPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &gormPortfolioRepository{db: db}
}

func (r *gormPortfolioRepository) FetchAll(ctx context.Context) ([]entity.Asset, error) {
	var rows []map[string]interface{}
	if err := r.db.WithContext(ctx).Table(common.TablePortfolioAssets).Find(&rows).Error; err != nil {
		return nil, apperror.NewStoreAccessError(common.StoreOpSelect, common.TablePortfolioAssets, err)
	}

	assets, err := entity.NewAssetsFromRows(rows)
	if err != nil {
		return nil, apperror.NewStoreAccessError(common.StoreOpSelect, common.TablePortfolioAssets, err)
	}
	return assets, nil
}
