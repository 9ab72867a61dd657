package repository

import (
	"github.com/diillson/agro-console/internal/domain/entity"
)

type ExportRepository interface {
	// Producers
	ExportProducersToCSV(producers []entity.Producer, filename, outputDir string) (string, error)
	ExportProducersToJSON(producers []entity.Producer, filename, outputDir string) (string, error)
	ExportProducersToXLSX(producers []entity.Producer, filename, outputDir string) (string, error)
	ExportProducersToPDF(producers []entity.Producer, filename, outputDir string) (string, error)

	// Dashboard
	ExportDashboardToJSON(summary entity.DashboardSummary, filename, outputDir string) (string, error)
	ExportDashboardToPDF(summary entity.DashboardSummary, filename, outputDir string) (string, error)
}

// ImportRepository lê planilhas de produtores para cadastro em lote.
type ImportRepository interface {
	ReadProducersXLSX(path string) ([]entity.ProducerImportRow, error)
}
