package web

import (
	"encoding/json"
	"net/http"

	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/domain/entity"
)

// chartData é o formato consumido pelo Chart.js.
type chartData struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type dashboardData struct {
	TotalFarms    int       `json:"total_farms"`
	TotalHectares float64   `json:"total_hectares"`
	FarmsByState  chartData `json:"farms_by_state"`
	Cultures      chartData `json:"cultures"`
	SoilUse       chartData `json:"soil_use"`
}

type dashboardView struct {
	Title  string
	Data   dashboardData
	Charts []chartView
	Error  string
}

type chartView struct {
	ID    string
	Title string
}

func newDashboardData(summary entity.DashboardSummary) dashboardData {
	return dashboardData{
		TotalFarms:    summary.TotalFarms,
		TotalHectares: summary.TotalHectares,
		FarmsByState:  toChartData(summary.FarmsByStateSeries()),
		Cultures:      toChartData(summary.CulturesSeries()),
		SoilUse:       toChartData(summary.SoilUseSeries()),
	}
}

func toChartData(series []entity.ChartSlice) chartData {
	out := chartData{Labels: []string{}, Values: []float64{}}
	for _, s := range series {
		out.Labels = append(out.Labels, s.Label)
		out.Values = append(out.Values, s.Value)
	}
	return out
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view := dashboardView{
		Title: "Dashboard",
		Charts: []chartView{
			{ID: "farmsByStateChart", Title: usecase.ChartFarmsByState},
			{ID: "culturesChart", Title: usecase.ChartCulturesSummary},
			{ID: "soilUseChart", Title: usecase.ChartAreaBySoilUse},
		},
	}
	summary, err := s.dashboard.GetSummary(r.Context())
	if err != nil {
		view.Error = usecase.MsgDashboardFailed
		view.Charts = nil
	} else {
		view.Data = newDashboardData(summary)
	}
	s.render(w, "dashboard.html", http.StatusOK, view)
}

func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	summary, err := s.dashboard.GetSummary(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": usecase.MsgDashboardFailed})
		return
	}
	_ = json.NewEncoder(w).Encode(newDashboardData(summary))
}
