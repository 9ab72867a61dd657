package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/diillson/agro-console/internal/domain/validation"
	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// ProducerUseCase handles the producer list view and its actions.
type ProducerUseCase struct {
	producerRepo repository.ProducerRepository
	exportRepo   repository.ExportRepository
	importRepo   repository.ImportRepository
	forms        *ProducerFormUseCase
	console      types.ConsoleInterface
	logger       *zap.Logger
}

// NewProducerUseCase creates a new producer use case.
func NewProducerUseCase(
	producerRepo repository.ProducerRepository,
	exportRepo repository.ExportRepository,
	importRepo repository.ImportRepository,
	forms *ProducerFormUseCase,
	console types.ConsoleInterface,
	logger *zap.Logger,
) *ProducerUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProducerUseCase{
		producerRepo: producerRepo,
		exportRepo:   exportRepo,
		importRepo:   importRepo,
		forms:        forms,
		console:      console,
		logger:       logger,
	}
}

// ListProducers busca os produtores para a view de listagem.
func (uc *ProducerUseCase) ListProducers(ctx context.Context) ([]entity.Producer, error) {
	producers, err := uc.producerRepo.ListProducers(ctx)
	if err != nil {
		uc.logger.Error("error fetching producers", zap.Error(err))
		return nil, &ViewError{Message: MsgListFailed, Err: err}
	}
	return producers, nil
}

// GetProducer busca um produtor pelo ID.
func (uc *ProducerUseCase) GetProducer(ctx context.Context, id int64) (entity.Producer, error) {
	producer, err := uc.producerRepo.GetProducer(ctx, id)
	if err != nil {
		uc.logger.Error("error loading producer", zap.Int64("producer_id", id), zap.Error(err))
		return entity.Producer{}, &ViewError{Message: MsgLoadFailed, Err: err}
	}
	return producer, nil
}

// DeleteProducer remove um produtor.
func (uc *ProducerUseCase) DeleteProducer(ctx context.Context, id int64) error {
	if err := uc.producerRepo.DeleteProducer(ctx, id); err != nil {
		uc.logger.Error("error deleting producer", zap.Int64("producer_id", id), zap.Error(err))
		return &ViewError{Message: MsgDeleteFailed, Err: err}
	}
	return nil
}

// RunList exibe a tabela de produtores e exporta quando solicitado.
func (uc *ProducerUseCase) RunList(ctx context.Context, report types.ReportArgs) error {
	status := uc.console.Status("Loading producers...")
	producers, err := uc.ListProducers(ctx)
	status.Stop()
	if err != nil {
		uc.console.LogError("%s", MsgListFailed)
		return err
	}

	if len(producers) == 0 {
		uc.console.LogWarning("No producers registered yet.")
	} else {
		uc.console.Print(uc.producersTable(producers).Render())
		uc.console.LogInfo("%d producer(s)", len(producers))
	}

	uc.export(producers, report)
	return nil
}

// RunShow exibe os detalhes de um produtor e suas culturas.
func (uc *ProducerUseCase) RunShow(ctx context.Context, id int64) error {
	producer, err := uc.GetProducer(ctx, id)
	if err != nil {
		uc.console.LogError("%s", MsgLoadFailed)
		return err
	}

	table := uc.console.CreateTable()
	table.AddColumn("Field")
	table.AddColumn("Value")
	table.AddRow("ID", producer.ID)
	table.AddRow("CPF/CNPJ", validation.FormatCPFCNPJ(producer.CPFCNPJ))
	table.AddRow("Name", producer.Name)
	table.AddRow("Farm", producer.FarmName)
	table.AddRow("City/State", fmt.Sprintf("%s/%s", producer.City, producer.State))
	table.AddRow("Total area (ha)", fmt.Sprintf("%.2f", producer.TotalArea))
	table.AddRow("Agricultural area (ha)", fmt.Sprintf("%.2f", producer.AgriculturalArea))
	table.AddRow("Vegetation area (ha)", fmt.Sprintf("%.2f", producer.VegetationArea))
	if !producer.CreatedAt.IsZero() {
		table.AddRow("Created at", producer.CreatedAt.Format("2006-01-02 15:04"))
		table.AddRow("Updated at", producer.UpdatedAt.Format("2006-01-02 15:04"))
	}
	uc.console.Print(table.Render())

	if len(producer.Cultures) == 0 {
		uc.console.LogInfo("No cultures registered for this producer.")
		return nil
	}
	cultures := uc.console.CreateTable()
	cultures.AddColumn("Culture ID")
	cultures.AddColumn("Crop Year")
	cultures.AddColumn("Culture")
	for _, c := range producer.Cultures {
		cultures.AddRow(c.ID, c.CropYear, c.Name)
	}
	uc.console.Print(cultures.Render())
	return nil
}

// RunDelete pede confirmação e remove o produtor.
func (uc *ProducerUseCase) RunDelete(ctx context.Context, id int64) error {
	if !uc.console.Confirm("Are you sure you want to delete this producer?") {
		uc.console.LogWarning("Delete cancelled.")
		return types.ErrAborted
	}
	if err := uc.DeleteProducer(ctx, id); err != nil {
		uc.console.LogError("%s", messageOr(err, MsgDeleteFailed))
		return err
	}
	uc.console.LogSuccess("Producer deleted successfully!")
	return nil
}

// RunSubmit envia o formulário e relata o resultado no console.
func (uc *ProducerUseCase) RunSubmit(ctx context.Context, form *ProducerForm) (SubmitResult, error) {
	status := uc.console.Status("Saving producer...")
	result, err := uc.forms.Submit(ctx, form)
	status.Stop()

	var partial *PartialFailureError
	switch {
	case errors.As(err, &partial):
		uc.console.LogSuccess("Producer updated successfully!")
		uc.console.LogError("%s Culture IDs: %v", form.Error, partial.FailedIDs())
		return result, err
	case err != nil:
		uc.console.LogError("%s", form.Error)
		return result, err
	}

	if result.Created {
		uc.console.LogSuccess("Producer created successfully! (ID %d)", result.Producer.ID)
	} else {
		uc.console.LogSuccess("Producer updated successfully!")
	}
	if len(result.DeletedCultures) > 0 {
		uc.console.LogSuccess("Cultures removed successfully!")
	}
	return result, nil
}

// ImportSummary resume uma importação em lote.
type ImportSummary struct {
	Created []entity.Producer
	Failed  map[int]string
}

// RunImport cadastra os produtores de uma planilha XLSX. Cada linha passa pelas
// mesmas validações do formulário de criação; linhas inválidas são puladas.
func (uc *ProducerUseCase) RunImport(ctx context.Context, path string) (ImportSummary, error) {
	summary := ImportSummary{Failed: map[int]string{}}

	rows, err := uc.importRepo.ReadProducersXLSX(path)
	if err != nil {
		uc.console.LogError("Failed to read spreadsheet: %s", err)
		return summary, err
	}

	for _, row := range rows {
		line := row.SheetRow
		if row.Err != nil {
			summary.Failed[line] = row.Err.Error()
			uc.console.LogWarning("Row %d skipped: %s", line, row.Err)
			continue
		}

		in := row.Producer
		form := uc.forms.NewForm()
		form.Fields = validation.ProducerInput{
			CPFCNPJ:          in.CPFCNPJ,
			Name:             in.Name,
			FarmName:         in.FarmName,
			City:             in.City,
			State:            in.State,
			TotalArea:        in.TotalArea,
			AgriculturalArea: in.AgriculturalArea,
			VegetationArea:   in.VegetationArea,
		}
		for _, c := range in.Cultures {
			if err := uc.forms.AddCulture(ctx, form, c); err != nil {
				break
			}
		}
		if form.Error != "" {
			summary.Failed[line] = form.Error
			uc.console.LogWarning("Row %d skipped: %s", line, form.Error)
			continue
		}

		result, err := uc.forms.Submit(ctx, form)
		if err != nil {
			summary.Failed[line] = form.Error
			uc.console.LogWarning("Row %d skipped: %s", line, form.Error)
			continue
		}
		summary.Created = append(summary.Created, result.Producer)
	}

	if len(summary.Failed) == 0 {
		uc.console.LogSuccess("Imported %d producer(s) from %s", len(summary.Created), path)
	} else {
		uc.console.LogWarning("Imported %d producer(s), %d row(s) failed", len(summary.Created), len(summary.Failed))
	}
	return summary, nil
}

func (uc *ProducerUseCase) producersTable(producers []entity.Producer) types.TableInterface {
	table := uc.console.CreateTable()
	table.AddColumn("ID")
	table.AddColumn("CPF/CNPJ")
	table.AddColumn("Name")
	table.AddColumn("Farm")
	table.AddColumn("City/State")
	table.AddColumn("Total (ha)")
	table.AddColumn("Agricultural (ha)")
	table.AddColumn("Vegetation (ha)")
	table.AddColumn("Cultures")

	for _, p := range producers {
		cultures := strings.Join(p.CultureNames(), "\n")
		if cultures == "" {
			cultures = pterm.FgGray.Sprint("-")
		}
		table.AddRow(
			p.ID,
			validation.FormatCPFCNPJ(p.CPFCNPJ),
			pterm.FgMagenta.Sprint(p.Name),
			p.FarmName,
			fmt.Sprintf("%s/%s", p.City, p.State),
			fmt.Sprintf("%.2f", p.TotalArea),
			fmt.Sprintf("%.2f", p.AgriculturalArea),
			fmt.Sprintf("%.2f", p.VegetationArea),
			cultures,
		)
	}
	return table
}

func (uc *ProducerUseCase) export(producers []entity.Producer, report types.ReportArgs) {
	if report.ReportName == "" || len(report.ReportType) == 0 {
		return
	}
	for _, reportType := range report.ReportType {
		var (
			path string
			err  error
		)
		switch strings.ToLower(reportType) {
		case "csv":
			path, err = uc.exportRepo.ExportProducersToCSV(producers, report.ReportName, report.Dir)
		case "json":
			path, err = uc.exportRepo.ExportProducersToJSON(producers, report.ReportName, report.Dir)
		case "xlsx":
			path, err = uc.exportRepo.ExportProducersToXLSX(producers, report.ReportName, report.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportProducersToPDF(producers, report.ReportName, report.Dir)
		default:
			uc.console.LogWarning("Unsupported report type: %s", reportType)
			continue
		}
		if err != nil {
			uc.console.LogError("Failed to export producers to %s: %s", strings.ToUpper(reportType), err)
		} else {
			uc.console.LogSuccess("Successfully exported producers to %s: %s", strings.ToUpper(reportType), path)
		}
	}
}
