package export

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/xuri/excelize/v2"
)

const producersSheet = "Producers"

func (r *ExportRepositoryImpl) ExportProducersToXLSX(producers []entity.Producer, filename, outputDir string) (string, error) {
	outputFilename, err := r.generateFilename(filename, outputDir, "xlsx")
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", producersSheet); err != nil {
		return "", fmt.Errorf("error naming sheet: %w", err)
	}

	header := make([]interface{}, len(producerHeaders))
	for i, h := range producerHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(producersSheet, "A1", &header); err != nil {
		return "", fmt.Errorf("error writing XLSX header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"225E34"}, Pattern: 1},
	})
	if err != nil {
		return "", fmt.Errorf("error creating XLSX style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(producerHeaders))
	if err := f.SetCellStyle(producersSheet, "A1", lastCol+"1", bold); err != nil {
		return "", fmt.Errorf("error styling XLSX header: %w", err)
	}

	for i, p := range producers {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		row := []interface{}{
			p.ID, p.CPFCNPJ, p.Name, p.FarmName, p.City, p.State,
			p.TotalArea, p.AgriculturalArea, p.VegetationArea, formatCultures(p.Cultures),
		}
		if err := f.SetSheetRow(producersSheet, cell, &row); err != nil {
			return "", fmt.Errorf("error writing XLSX row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(producersSheet, "B", lastCol, 20); err != nil {
		return "", fmt.Errorf("error sizing XLSX columns: %w", err)
	}

	if err := f.SaveAs(outputFilename); err != nil {
		return "", fmt.Errorf("error writing XLSX file: %w", err)
	}
	return filepath.Abs(outputFilename)
}

// ImportRepositoryImpl lê planilhas XLSX de produtores.
type ImportRepositoryImpl struct{}

// NewImportRepository cria uma nova implementação do ImportRepository.
func NewImportRepository() repository.ImportRepository {
	return &ImportRepositoryImpl{}
}

// Colunas reconhecidas na importação, na ordem padrão usada quando a planilha
// não tem cabeçalho.
const (
	colCPFCNPJ = iota
	colName
	colFarm
	colCity
	colState
	colTotal
	colAgricultural
	colVegetation
	colCultures
	columnCount
)

var headerAliases = map[string]int{
	"cpf/cnpj":          colCPFCNPJ,
	"cpf cnpj":          colCPFCNPJ,
	"cpf":               colCPFCNPJ,
	"cnpj":              colCPFCNPJ,
	"name":              colName,
	"producer":          colName,
	"farm":              colFarm,
	"farm name":         colFarm,
	"city":              colCity,
	"state":             colState,
	"uf":                colState,
	"total area":        colTotal,
	"total":             colTotal,
	"agricultural area": colAgricultural,
	"agricultural":      colAgricultural,
	"vegetation area":   colVegetation,
	"vegetation":        colVegetation,
	"cultures":          colCultures,
}

// ReadProducersXLSX lê a primeira aba da planilha. A primeira linha é tratada
// como cabeçalho quando contém nomes de colunas conhecidos; colunas extras
// (como "ID", vinda da exportação) são ignoradas. Linhas em branco são puladas.
// Uma célula de área inválida marca só a própria linha com Err.
func (r *ImportRepositoryImpl) ReadProducersXLSX(path string) ([]entity.ProducerImportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("spreadsheet %s is empty", path)
	}

	columns, isHeader := headerColumns(rows[0])
	start := 0
	if isHeader {
		start = 1
	}

	var out []entity.ProducerImportRow
	for i := start; i < len(rows); i++ {
		cells := rows[i]
		if blankRow(cells) {
			continue
		}
		cell := func(col int) string {
			idx := columns[col]
			if idx < 0 || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}

		p := entity.ProducerCreate{
			CPFCNPJ:  cell(colCPFCNPJ),
			Name:     cell(colName),
			FarmName: cell(colFarm),
			City:     cell(colCity),
			State:    cell(colState),
			Cultures: parseCultures(cell(colCultures)),
		}
		row := entity.ProducerImportRow{SheetRow: i + 1}
		for _, area := range []struct {
			col int
			dst *float64
		}{
			{colTotal, &p.TotalArea},
			{colAgricultural, &p.AgriculturalArea},
			{colVegetation, &p.VegetationArea},
		} {
			v, err := parseArea(cell(area.col))
			if err != nil {
				row.Err = err
				break
			}
			*area.dst = v
		}
		row.Producer = p
		out = append(out, row)
	}
	return out, nil
}

// headerColumns mapeia cada coluna conhecida para o índice na planilha.
func headerColumns(first []string) ([]int, bool) {
	columns := make([]int, columnCount)
	for i := range columns {
		columns[i] = -1
	}
	found := 0
	for idx, name := range first {
		col, ok := headerAliases[normalizeHeader(name)]
		if ok && columns[col] < 0 {
			columns[col] = idx
			found++
		}
	}
	if found > 0 {
		return columns, true
	}
	for i := range columns {
		columns[i] = i
	}
	return columns, false
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "(ha)")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseArea aceita vírgula como separador decimal ("12,5").
func parseArea(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	if !strings.Contains(v, ".") {
		v = strings.ReplaceAll(v, ",", ".")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("invalid area %q", v)
	}
	return f, nil
}

// parseCultures lê "2024:Soja; 2023:Milho". Entradas sem ":" viram culturas
// sem safra, que a validação do formulário rejeita.
func parseCultures(v string) []entity.CultureCreate {
	var out []entity.CultureCreate
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		year, name, ok := strings.Cut(part, ":")
		if !ok {
			out = append(out, entity.CultureCreate{Name: part})
			continue
		}
		out = append(out, entity.CultureCreate{CropYear: strings.TrimSpace(year), Name: strings.TrimSpace(name)})
	}
	return out
}
