package usecase

import (
	"fmt"
	"strings"
	"sync"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/shared/types"
)

// recordingConsole guarda tudo que seria exibido no terminal.
type recordingConsole struct {
	mu       sync.Mutex
	lines    []string
	confirm  bool
	bars     map[string][]types.ChartPoint
	shares   map[string][]types.ChartPoint
	ringLike map[string]bool
}

func newRecordingConsole() *recordingConsole {
	return &recordingConsole{
		confirm:  true,
		bars:     map[string][]types.ChartPoint{},
		shares:   map[string][]types.ChartPoint{},
		ringLike: map[string]bool{},
	}
}

func (c *recordingConsole) add(prefix, format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, prefix+fmt.Sprintf(format, a...))
}

func (c *recordingConsole) Print(a ...interface{})                 { c.add("", "%s", fmt.Sprint(a...)) }
func (c *recordingConsole) Printf(format string, a ...interface{}) { c.add("", format, a...) }
func (c *recordingConsole) Println(a ...interface{})               { c.add("", "%s", fmt.Sprint(a...)) }
func (c *recordingConsole) LogInfo(format string, a ...interface{}) {
	c.add("INFO: ", format, a...)
}
func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.add("WARNING: ", format, a...)
}
func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.add("ERROR: ", format, a...)
}
func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {
	c.add("SUCCESS: ", format, a...)
}
func (c *recordingConsole) Status(message string) types.StatusHandle { return nopStatus{} }
func (c *recordingConsole) Confirm(question string) bool {
	c.add("CONFIRM: ", "%s", question)
	return c.confirm
}
func (c *recordingConsole) CreateTable() types.TableInterface { return &recordingTable{} }
func (c *recordingConsole) DisplayBarChart(title string, bars []types.ChartPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bars[title] = bars
}
func (c *recordingConsole) DisplayShareChart(title string, slices []types.ChartPoint, ring bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shares[title] = slices
	c.ringLike[title] = ring
}

func (c *recordingConsole) output() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Join(c.lines, "\n")
}

type nopStatus struct{}

func (nopStatus) Update(string) {}
func (nopStatus) Stop()         {}

type recordingTable struct {
	header []string
	rows   [][]string
}

func (t *recordingTable) AddColumn(name string, options ...interface{}) {
	t.header = append(t.header, name)
}

func (t *recordingTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, c := range cells {
		row[i] = fmt.Sprint(c)
	}
	t.rows = append(t.rows, row)
}

func (t *recordingTable) Render() string {
	lines := []string{strings.Join(t.header, " | ")}
	for _, r := range t.rows {
		lines = append(lines, strings.Join(r, " | "))
	}
	return strings.Join(lines, "\n")
}

// fakeExporter registra as chamadas de exportação.
type fakeExporter struct {
	calls []string
	err   error
}

func (f *fakeExporter) record(kind, filename, dir string) (string, error) {
	f.calls = append(f.calls, kind)
	if f.err != nil {
		return "", f.err
	}
	return dir + "/" + filename + "." + strings.ToLower(strings.TrimPrefix(kind, "dashboard-")), nil
}

func (f *fakeExporter) ExportProducersToCSV(p []entity.Producer, filename, dir string) (string, error) {
	return f.record("csv", filename, dir)
}
func (f *fakeExporter) ExportProducersToJSON(p []entity.Producer, filename, dir string) (string, error) {
	return f.record("json", filename, dir)
}
func (f *fakeExporter) ExportProducersToXLSX(p []entity.Producer, filename, dir string) (string, error) {
	return f.record("xlsx", filename, dir)
}
func (f *fakeExporter) ExportProducersToPDF(p []entity.Producer, filename, dir string) (string, error) {
	return f.record("pdf", filename, dir)
}
func (f *fakeExporter) ExportDashboardToJSON(s entity.DashboardSummary, filename, dir string) (string, error) {
	return f.record("dashboard-json", filename, dir)
}
func (f *fakeExporter) ExportDashboardToPDF(s entity.DashboardSummary, filename, dir string) (string, error) {
	return f.record("dashboard-pdf", filename, dir)
}

type fakeImporter struct {
	rows []entity.ProducerImportRow
	err  error
}

func (f *fakeImporter) ReadProducersXLSX(path string) ([]entity.ProducerImportRow, error) {
	return f.rows, f.err
}
