package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Console é uma implementação do ConsoleInterface.
type Console struct {
	out io.Writer
	// assumeYes responde "sim" a todas as confirmações (flag --yes).
	assumeYes bool
}

// NewConsole cria um novo Console escrevendo em stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWithWriter cria um Console que escreve em w (útil em testes).
func NewConsoleWithWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// SetAssumeYes liga ou desliga as confirmações interativas.
func (c *Console) SetAssumeYes(yes bool) {
	c.assumeYes = yes
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	pterm.Info.WithWriter(c.out).Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	pterm.Warning.WithWriter(c.out).Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	pterm.Error.WithWriter(c.out).Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	pterm.Success.WithWriter(c.out).Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.out).WithRemoveWhenDone(true).Start(message)
	return &statusHandle{spinner: spinner}
}

// Cores do banner
var (
	BrightGreen  = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightYellow = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Confirm pergunta sim/não ao usuário. Com --yes a resposta é sempre sim.
func (c *Console) Confirm(question string) bool {
	if c.assumeYes {
		return true
	}
	ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(question)
	if err != nil {
		return false
	}
	return ok
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayBarChart exibe um gráfico de barras horizontal dentro de um painel.
func (c *Console) DisplayBarChart(title string, points []types.ChartPoint) {
	if len(points) == 0 {
		pterm.Warning.WithWriter(c.out).Printfln("%s: no data", title)
		return
	}

	bars := make(pterm.Bars, 0, len(points))
	for _, p := range points {
		bars = append(bars, pterm.Bar{
			Label: p.Label,
			Value: int(math.Round(p.Value)),
			Style: pterm.NewStyle(pterm.FgCyan),
		})
	}

	chart, err := pterm.DefaultBarChart.
		WithBars(bars).
		WithHorizontal().
		WithShowValue().
		WithWidth(40).
		Srender()
	if err != nil {
		pterm.Error.WithWriter(c.out).Printfln("%s: %v", title, err)
		return
	}

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(chart)
	fmt.Fprintln(c.out, "\n"+panel)
}

// sliceColors alterna as cores das fatias nos gráficos de participação.
var sliceColors = []pterm.Color{pterm.FgRed, pterm.FgBlue, pterm.FgYellow, pterm.FgCyan, pterm.FgMagenta, pterm.FgLightRed}

// DisplayShareChart exibe a participação de cada fatia no total, como
// substituto textual para gráficos de pizza (ring=false) e rosca (ring=true).
func (c *Console) DisplayShareChart(title string, slices []types.ChartPoint, ring bool) {
	total := 0.0
	for _, s := range slices {
		total += s.Value
	}
	if total <= 0 {
		pterm.Warning.WithWriter(c.out).Printfln("%s: no data", title)
		return
	}

	glyph := "█"
	if ring {
		glyph = "▒"
	}

	tableData := pterm.TableData{{"Label", "Value", "Share", ""}}
	for i, s := range slices {
		share := s.Value / total
		bar := strings.Repeat(glyph, int(math.Round(share*40)))
		col := sliceColors[i%len(sliceColors)]
		tableData = append(tableData, []string{
			s.Label,
			formatNumber(s.Value),
			fmt.Sprintf("%.1f%%", share*100),
			col.Sprint(bar),
		})
	}
	tableData = append(tableData, []string{pterm.Bold.Sprint("Total"), formatNumber(total), "100.0%", ""})

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle(title).WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)
	fmt.Fprintln(c.out, "\n"+panel)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
