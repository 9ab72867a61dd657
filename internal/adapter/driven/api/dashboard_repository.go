package api

import (
	"context"
	"net/http"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/domain/repository"
)

// DashboardRepositoryImpl implementa o DashboardRepository.
type DashboardRepositoryImpl struct {
	client *Client
}

// NewDashboardRepository cria uma nova implementação do DashboardRepository.
func NewDashboardRepository(client *Client) repository.DashboardRepository {
	return &DashboardRepositoryImpl{client: client}
}

// GetSummary busca o resumo agregado do dashboard.
func (r *DashboardRepositoryImpl) GetSummary(ctx context.Context) (entity.DashboardSummary, error) {
	var summary entity.DashboardSummary
	if err := r.client.do(ctx, http.MethodGet, "/dashboard/summary", nil, &summary); err != nil {
		return entity.DashboardSummary{}, err
	}
	if summary.FarmsByState == nil {
		summary.FarmsByState = map[string]int{}
	}
	if summary.CulturesSummary == nil {
		summary.CulturesSummary = map[string]int{}
	}
	return summary, nil
}
