package repository

import (
	"context"

	"portfolio-intelligence/internal/entity"
	"portfolio-intelligence/pkg/apperror"
	"portfolio-intelligence/pkg/common"

	"github.com/supabase-community/postgrest-go"
)

type supabaseIntelligenceRepository struct {
	client *postgrest.Client
}

// NewSupabaseIntelligenceRepository writes intelligence rows through the Supabase REST API.
func NewSupabaseIntelligenceRepository(client *postgrest.Client) IntelligenceRepository {
	return &supabaseIntelligenceRepository{client: client}
}

// Insert issues one POST for the row.
func (r *supabaseIntelligenceRepository) Insert(ctx context.Context, row *entity.DailyIntelligence) error {
	if err := ctx.Err(); err != nil {
		return apperror.NewStoreAccessError(common.StoreOpInsert, common.TableDailyIntelligence, err)
	}

	_, _, err := r.client.From(common.TableDailyIntelligence).Insert(row, false, "", "minimal", "").Execute()
	return apperror.NewStoreAccessError(common.StoreOpInsert, common.TableDailyIntelligence, err)
}
