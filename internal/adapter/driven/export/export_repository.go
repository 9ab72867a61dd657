package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/diillson/agro-console/internal/domain/validation"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct {
	// now permite fixar o relógio nos testes.
	now func() time.Time
}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{now: time.Now}
}

var producerHeaders = []string{
	"ID", "CPF/CNPJ", "Name", "Farm", "City", "State",
	"Total Area (ha)", "Agricultural Area (ha)", "Vegetation Area (ha)", "Cultures",
}

// --- Funções de Exportação de Produtores ---

func (r *ExportRepositoryImpl) ExportProducersToCSV(producers []entity.Producer, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(producerHeaders); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	for _, p := range producers {
		if err := writer.Write(producerRecord(p)); err != nil {
			return "", fmt.Errorf("error writing CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error flushing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportProducersToJSON(producers []entity.Producer, filename, outputDir string) (string, error) {
	if producers == nil {
		producers = []entity.Producer{}
	}
	return r.writeJSON(producers, filename, outputDir)
}

func (r *ExportRepositoryImpl) ExportProducersToPDF(producers []entity.Producer, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(r.footer(pdf, tr, "Producers Report"))
	pdf.AddPage()
	drawTitle(pdf, tr, "Producers", fmt.Sprintf("%d producer(s)", len(producers)))

	widths := []float64{12, 38, 40, 40, 30, 12, 22, 26, 24, 33}
	headers := []string{"ID", "CPF/CNPJ", "Name", "Farm", "City", "UF", "Total (ha)", "Agricultural", "Vegetation", "Cultures"}

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
		pdf.SetTextColor(255, 255, 255)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	}
	drawHeader()

	for i, p := range producers {
		if pdf.GetY() > 180 {
			pdf.AddPage()
			drawHeader()
		}
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		cells := []string{
			fmt.Sprintf("%d", p.ID),
			validation.FormatCPFCNPJ(p.CPFCNPJ),
			truncate(p.Name, 24),
			truncate(p.FarmName, 24),
			truncate(p.City, 18),
			p.State,
			fmt.Sprintf("%.2f", p.TotalArea),
			fmt.Sprintf("%.2f", p.AgriculturalArea),
			fmt.Sprintf("%.2f", p.VegetationArea),
			truncate(strings.Join(p.CultureNames(), ", "), 20),
		}
		for j, c := range cells {
			align := "L"
			if j == 0 || j >= 6 && j <= 8 {
				align = "R"
			}
			pdf.CellFormat(widths[j], 7, tr(c), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Funções de Exportação do Dashboard ---

func (r *ExportRepositoryImpl) ExportDashboardToJSON(summary entity.DashboardSummary, filename, outputDir string) (string, error) {
	return r.writeJSON(summary, filename, outputDir)
}

func (r *ExportRepositoryImpl) ExportDashboardToPDF(summary entity.DashboardSummary, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(r.footer(pdf, tr, "Dashboard"))
	pdf.AddPage()
	drawTitle(pdf, tr, "Dashboard", "Producers summary")

	// Totais
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(95, 8, tr("  Total Farms"), "", 0, "L", true, 0, "")
	pdf.CellFormat(95, 8, tr("  Total Hectares"), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(95, 12, fmt.Sprintf("  %d", summary.TotalFarms), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 12, fmt.Sprintf("  %.2f ha", summary.TotalHectares), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	drawSectionTitle(pdf, tr, "Farms by State")
	y := pdf.GetY()
	drawBarChart(pdf, tr, 20, y, 170, 60, summary.FarmsByStateSeries())
	pdf.SetY(y + 75)

	drawSectionTitle(pdf, tr, "Cultures Summary")
	y = pdf.GetY()
	drawShareChart(pdf, tr, 55, y+28, 25, summary.CulturesSeries(), false)
	pdf.SetY(y + 62)

	drawSectionTitle(pdf, tr, "Area by Soil Use")
	y = pdf.GetY()
	drawShareChart(pdf, tr, 55, y+28, 25, summary.SoilUseSeries(), true)

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing dashboard PDF file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

var (
	headerColor       = [3]int{34, 94, 52}
	sectionTitleColor = [3]int{0, 0, 0}
	bodyTextColor     = [3]int{50, 50, 50}
	lineColor         = [3]int{200, 200, 200}
)

func drawTitle(pdf *gofpdf.Fpdf, tr func(string) string, title, subtitle string) {
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+title), "", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr("  "+subtitle), "", 1, "L", true, 0, "")
	pdf.Ln(8)
}

func drawSectionTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(sectionTitleColor[0], sectionTitleColor[1], sectionTitleColor[2])
	pdf.Cell(0, 8, tr(title))
	pdf.Ln(7)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)
}

func (r *ExportRepositoryImpl) footer(pdf *gofpdf.Fpdf, tr func(string) string, name string) func() {
	generated := r.now().Format("2006-01-02")
	return func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Agro Console | %s | %s", name, generated)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Page %d", pdf.PageNo())), "", 0, "R", false, 0, "")
	}
}

func (r *ExportRepositoryImpl) writeJSON(data interface{}, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func producerRecord(p entity.Producer) []string {
	return []string{
		fmt.Sprintf("%d", p.ID),
		validation.FormatCPFCNPJ(p.CPFCNPJ),
		p.Name,
		p.FarmName,
		p.City,
		p.State,
		fmt.Sprintf("%.2f", p.TotalArea),
		fmt.Sprintf("%.2f", p.AgriculturalArea),
		fmt.Sprintf("%.2f", p.VegetationArea),
		formatCultures(p.Cultures),
	}
}

// formatCultures usa o mesmo formato aceito na importação: "2024:Soja; 2023:Milho".
func formatCultures(cultures []entity.Culture) string {
	parts := make([]string, len(cultures))
	for i, c := range cultures {
		parts[i] = c.CropYear + ":" + c.Name
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func (r *ExportRepositoryImpl) generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := r.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
