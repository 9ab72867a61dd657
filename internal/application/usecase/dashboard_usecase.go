package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/diillson/agro-console/internal/shared/types"
	"go.uber.org/zap"
)

// Títulos dos três gráficos do dashboard.
const (
	ChartFarmsByState    = "Farms by State"
	ChartCulturesSummary = "Cultures Summary"
	ChartAreaBySoilUse   = "Area by Soil Use"
)

// DashboardUseCase handles the summary dashboard.
type DashboardUseCase struct {
	dashboardRepo repository.DashboardRepository
	exportRepo    repository.ExportRepository
	console       types.ConsoleInterface
	logger        *zap.Logger
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	dashboardRepo repository.DashboardRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
	logger *zap.Logger,
) *DashboardUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardUseCase{
		dashboardRepo: dashboardRepo,
		exportRepo:    exportRepo,
		console:       console,
		logger:        logger,
	}
}

// GetSummary busca o resumo agregado.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (entity.DashboardSummary, error) {
	summary, err := uc.dashboardRepo.GetSummary(ctx)
	if err != nil {
		uc.logger.Error("error fetching dashboard summary", zap.Error(err))
		return entity.DashboardSummary{}, &ViewError{Message: MsgDashboardFailed, Err: err}
	}
	return summary, nil
}

// RunDashboard exibe os totais e os três gráficos, exportando quando solicitado.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, report types.ReportArgs) error {
	status := uc.console.Status("Loading dashboard...")
	summary, err := uc.GetSummary(ctx)
	status.Stop()
	if err != nil {
		uc.console.LogError("%s", MsgDashboardFailed)
		return err
	}

	table := uc.console.CreateTable()
	table.AddColumn("Total Farms")
	table.AddColumn("Total Hectares")
	table.AddRow(summary.TotalFarms, fmt.Sprintf("%.2f", summary.TotalHectares))
	uc.console.Print(table.Render())

	uc.console.DisplayBarChart(ChartFarmsByState, toChartPoints(summary.FarmsByStateSeries()))
	uc.console.DisplayShareChart(ChartCulturesSummary, toChartPoints(summary.CulturesSeries()), false)
	uc.console.DisplayShareChart(ChartAreaBySoilUse, toChartPoints(summary.SoilUseSeries()), true)

	uc.export(summary, report)
	return nil
}

func (uc *DashboardUseCase) export(summary entity.DashboardSummary, report types.ReportArgs) {
	if report.ReportName == "" || len(report.ReportType) == 0 {
		return
	}
	for _, reportType := range report.ReportType {
		switch strings.ToLower(reportType) {
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportDashboardToPDF(summary, report.ReportName, report.Dir)
			if err != nil {
				uc.console.LogError("Failed to export dashboard to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported dashboard to PDF: %s", pdfPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportDashboardToJSON(summary, report.ReportName, report.Dir)
			if err != nil {
				uc.console.LogError("Failed to export dashboard to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported dashboard to JSON: %s", jsonPath)
			}
		default:
			uc.console.LogWarning("Unsupported report type for dashboard: %s", reportType)
		}
	}
}

// toChartPoints converte as séries da entidade para o tipo do console.
func toChartPoints(series []entity.ChartSlice) []types.ChartPoint {
	points := make([]types.ChartPoint, len(series))
	for i, s := range series {
		points[i] = types.ChartPoint{Label: s.Label, Value: s.Value}
	}
	return points
}
