package export

import (
	"fmt"
	"math"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
)

// chartPalette segue as cores padrão dos gráficos do console web.
var chartPalette = [][3]int{
	{54, 162, 235},
	{255, 99, 132},
	{255, 206, 86},
	{75, 192, 192},
	{153, 102, 255},
	{255, 159, 64},
	{46, 139, 87},
	{201, 203, 207},
}

func paletteColor(i int) [3]int {
	return chartPalette[i%len(chartPalette)]
}

func drawNoData(pdf *gofpdf.Fpdf, x, y float64) {
	pdf.SetXY(x, y)
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(60, 8, "No data")
}

// drawBarChart desenha barras verticais dentro do retângulo (x, y, w, h).
func drawBarChart(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, series []entity.ChartSlice) {
	if len(series) == 0 {
		drawNoData(pdf, x, y)
		return
	}

	var peak float64
	for _, s := range series {
		peak = math.Max(peak, s.Value)
	}
	if peak == 0 {
		peak = 1
	}

	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(x, y+h, x+w, y+h)
	pdf.Line(x, y, x, y+h)

	slot := w / float64(len(series))
	barWidth := slot * 0.6
	color := paletteColor(0)
	pdf.SetFont("Arial", "", 8)
	for i, s := range series {
		barHeight := (s.Value / peak) * (h - 6)
		bx := x + float64(i)*slot + (slot-barWidth)/2
		by := y + h - barHeight

		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.Rect(bx, by, barWidth, barHeight, "F")

		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.SetXY(x+float64(i)*slot, by-5)
		pdf.CellFormat(slot, 5, formatValue(s.Value), "", 0, "C", false, 0, "")
		pdf.SetXY(x+float64(i)*slot, y+h+1)
		pdf.CellFormat(slot, 5, tr(s.Label), "", 0, "C", false, 0, "")
	}
}

// drawShareChart desenha um gráfico de pizza (ou rosca, quando ring) centrado
// em (cx, cy) com a legenda à direita.
func drawShareChart(pdf *gofpdf.Fpdf, tr func(string) string, cx, cy, radius float64, series []entity.ChartSlice, ring bool) {
	var total float64
	for _, s := range series {
		total += s.Value
	}
	if total <= 0 {
		drawNoData(pdf, cx-radius, cy)
		return
	}

	start := -math.Pi / 2
	for i, s := range series {
		if s.Value <= 0 {
			continue
		}
		sweep := 2 * math.Pi * s.Value / total
		color := paletteColor(i)
		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.Polygon(slicePoints(cx, cy, radius, start, sweep), "F")
		start += sweep
	}

	if ring {
		pdf.SetFillColor(255, 255, 255)
		pdf.Circle(cx, cy, radius*0.55, "F")
	}

	// Legenda
	lx, ly := cx+radius+20, cy-radius
	pdf.SetFont("Arial", "", 9)
	for i, s := range series {
		color := paletteColor(i)
		pdf.SetFillColor(color[0], color[1], color[2])
		pdf.Rect(lx, ly+float64(i)*6+1, 4, 4, "F")
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.SetXY(lx+6, ly+float64(i)*6)
		label := fmt.Sprintf("%s: %s (%.1f%%)", s.Label, formatValue(s.Value), 100*s.Value/total)
		pdf.CellFormat(90, 6, tr(label), "", 0, "L", false, 0, "")
	}
}

// slicePoints aproxima um setor circular por um polígono.
func slicePoints(cx, cy, radius, start, sweep float64) []gofpdf.PointType {
	steps := int(math.Ceil(sweep / (math.Pi / 90)))
	if steps < 1 {
		steps = 1
	}
	points := make([]gofpdf.PointType, 0, steps+2)
	points = append(points, gofpdf.PointType{X: cx, Y: cy})
	for i := 0; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		points = append(points, gofpdf.PointType{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
	}
	return points
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
