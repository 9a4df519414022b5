package repository

import (
	"context"

	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/apperror"
	"portfolio-intelligence/pkg/common"

	"github.com/supabase-community/postgrest-go"
)

type supabasePortfolioRepository struct {
	client *postgrest.Client
}

// NewSupabasePortfolioRepository reads the portfolio through the Supabase REST API.
func NewSupabasePortfolioRepository(client *postgrest.Client) PortfolioRepository {
	return &supabasePortfolioRepository{client: client}
}

// FetchAll selects every row of the portfolio table in a single request.
func (r *supabasePortfolioRepository) FetchAll(ctx context.Context) ([]entity.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperror.NewStoreAccessError(common.StoreOpSelect, common.TablePortfolioAssets, err)
	}

	var rows []map[string]interface{}
	if _, err := r.client.From(common.TablePortfolioAssets).Select("*", "", false).ExecuteTo(&rows); err != nil {
		return nil, apperror.NewStoreAccessError(common.StoreOpSelect, common.TablePortfolioAssets, err)
	}

	assets, err := entity.NewAssetsFromRows(rows)
	if err != nil {
		return nil, apperror.NewStoreAccessError(common.StoreOpSelect, common.TablePortfolioAssets, err)
	}
	return assets, nil
}
