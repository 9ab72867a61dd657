package export

import (
	"path/filepath"
	"testing"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportThenImportXLSX(t *testing.T) {
	path, err := newTestRepo().ExportProducersToXLSX(sampleProducers(), "producers", t.TempDir())
	require.NoError(t, err)

	rows, err := NewImportRepository().ReadProducersXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, entity.ProducerImportRow{
		SheetRow: 2,
		Producer: entity.ProducerCreate{
			CPFCNPJ: "12345678901", Name: "João da Silva", FarmName: "Fazenda Boa Vista",
			City: "Sorriso", State: "MT", TotalArea: 100, AgriculturalArea: 60, VegetationArea: 40,
			Cultures: []entity.CultureCreate{{CropYear: "2024", Name: "Soja"}, {CropYear: "2023", Name: "Milho"}},
		},
	}, rows[0])
	assert.Equal(t, 3, rows[1].SheetRow)
	assert.Equal(t, 250.5, rows[1].Producer.TotalArea)
	assert.Equal(t, "Agro [MT] Ltda", rows[1].Producer.Name)
	assert.Empty(t, rows[1].Producer.Cultures)
}

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "in.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadProducersXLSXWithoutHeader(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"111.222.333-44", "Ana", "Sítio", "Sinop", "mt", "12,5", "10", "2", "2024:Soja;Café"},
		{},
		{"22233344455", "Bia", "Lagoa", "Jataí", "GO", 30, 10, 10},
	})

	rows, err := NewImportRepository().ReadProducersXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].SheetRow)
	assert.Equal(t, 12.5, rows[0].Producer.TotalArea)
	assert.Equal(t, "mt", rows[0].Producer.State)
	assert.Equal(t, []entity.CultureCreate{{CropYear: "2024", Name: "Soja"}, {Name: "Café"}}, rows[0].Producer.Cultures)
	// a linha em branco não desloca a numeração
	assert.Equal(t, 3, rows[1].SheetRow)
	assert.Equal(t, "Bia", rows[1].Producer.Name)
	assert.Equal(t, 30.0, rows[1].Producer.TotalArea)
}

func TestReadProducersXLSXHeaderAnyOrder(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"state", "name", "cpf_cnpj", "total_area", "farm_name", "city"},
		{"SP", "Caio", "12345678901", "50", "Serra", "Campinas"},
	})

	rows, err := NewImportRepository().ReadProducersXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, rows[0].Err)
	assert.Equal(t, entity.ProducerCreate{
		CPFCNPJ: "12345678901", Name: "Caio", FarmName: "Serra", City: "Campinas", State: "SP", TotalArea: 50,
	}, rows[0].Producer)
}

func TestReadProducersXLSXMissingFile(t *testing.T) {
	_, err := NewImportRepository().ReadProducersXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestReadProducersXLSXInvalidAreaMarksOnlyThatRow(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"CPF/CNPJ", "Name", "Farm", "City", "State", "Total Area (ha)"},
		{"12345678901", "Caio", "Serra", "Campinas", "SP", "100"},
		{"98765432100", "Duda", "Vale", "Sinop", "MT", "muito"},
		{"11122233344", "Eva", "Rio", "Jataí", "GO", "50"},
		{"55566677788", "Fábio", "Mata", "Sorriso", "MT", "Inf"},
	})

	rows, err := NewImportRepository().ReadProducersXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.NoError(t, rows[0].Err)
	assert.Equal(t, 100.0, rows[0].Producer.TotalArea)

	assert.Equal(t, 3, rows[1].SheetRow)
	require.Error(t, rows[1].Err)
	assert.Contains(t, rows[1].Err.Error(), `invalid area "muito"`)

	assert.NoError(t, rows[2].Err)
	assert.Equal(t, "Eva", rows[2].Producer.Name)
	assert.Equal(t, 50.0, rows[2].Producer.TotalArea)

	assert.Equal(t, 5, rows[3].SheetRow)
	assert.Error(t, rows[3].Err)
}

func TestParseArea(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "12,5", want: 12.5},
		{in: "1.5", want: 1.5},
		{in: "abc", wantErr: true},
		{in: "Inf", wantErr: true},
		{in: "-Inf", wantErr: true},
		{in: "NaN", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseArea(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseCultures(t *testing.T) {
	assert.Nil(t, parseCultures(""))
	assert.Equal(t, []entity.CultureCreate{{CropYear: "2023/2024", Name: "Soja"}}, parseCultures(" 2023/2024 : Soja ; "))
}
