package entity

import "sort"

// AreaBySoilUse soma as áreas (ha) por uso do solo.
type AreaBySoilUse struct {
	Agricultural float64 `json:"agricultural"`
	Vegetation   float64 `json:"vegetation"`
}

// DashboardSummary é o agregado calculado pela API. Nunca é alterado pelo console.
type DashboardSummary struct {
	TotalFarms      int            `json:"total_farms"`
	TotalHectares   float64        `json:"total_hectares"`
	FarmsByState    map[string]int `json:"farms_by_state"`
	CulturesSummary map[string]int `json:"cultures_summary"`
	AreaBySoilUse   AreaBySoilUse  `json:"area_by_soil_use"`
}

// ChartSlice é um ponto de um gráfico (barra ou fatia).
type ChartSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// FarmsByStateSeries devolve os pontos do gráfico de barras ordenados por estado.
func (s DashboardSummary) FarmsByStateSeries() []ChartSlice {
	return sortedSeries(s.FarmsByState)
}

// CulturesSeries devolve os pontos do gráfico de pizza ordenados por cultura.
func (s DashboardSummary) CulturesSeries() []ChartSlice {
	return sortedSeries(s.CulturesSummary)
}

// SoilUseSeries devolve os pontos do gráfico de rosca.
func (s DashboardSummary) SoilUseSeries() []ChartSlice {
	return []ChartSlice{
		{Label: "Agricultural Area", Value: s.AreaBySoilUse.Agricultural},
		{Label: "Vegetation Area", Value: s.AreaBySoilUse.Vegetation},
	}
}

func sortedSeries(m map[string]int) []ChartSlice {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]ChartSlice, 0, len(keys))
	for _, k := range keys {
		series = append(series, ChartSlice{Label: k, Value: float64(m[k])})
	}
	return series
}
