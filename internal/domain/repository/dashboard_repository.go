package repository

import (
	"context"

	"github.com/diillson/agro-console/internal/domain/entity"
)

// DashboardRepository defines the interface for the aggregated statistics endpoint.
type DashboardRepository interface {
	GetSummary(ctx context.Context) (entity.DashboardSummary, error)
}
