package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diillson/agro-console/internal/adapter/driven/api/apitest"
	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/shared/types"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(baseURL, 5*time.Second, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("", time.Second, nil)
	assert.ErrorIs(t, err, types.ErrAPIURLNotConfigured)

	_, err = NewClient("not a url", time.Second, nil)
	assert.Error(t, err)

	c, err := NewClient(" http://localhost:8000/api/ ", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL())
}

func TestProducerRepositoryCRUD(t *testing.T) {
	srv := apitest.NewServer(t)
	repo := NewProducerRepository(newTestClient(t, srv.URL+"/"))
	ctx := context.Background()

	created, err := repo.CreateProducer(ctx, entity.ProducerCreate{
		CPFCNPJ:          "12345678901",
		Name:             "Maria",
		FarmName:         "Sítio Esperança",
		City:             "Londrina",
		State:            "PR",
		TotalArea:        50,
		AgriculturalArea: 30,
		VegetationArea:   10,
		Cultures:         []entity.CultureCreate{{CropYear: "2024", Name: "Soja"}},
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Len(t, created.Cultures, 1)
	assert.Equal(t, created.ID, created.Cultures[0].ProducerID)

	got, err := repo.GetProducer(ctx, created.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("GetProducer mismatch (-want +got):\n%s", diff)
	}

	name := "Maria Souza"
	updated, err := repo.UpdateProducer(ctx, created.ID, entity.ProducerUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", updated.Name)
	assert.Equal(t, "Londrina", updated.City)

	culture, err := repo.AddCulture(ctx, created.ID, entity.CultureCreate{CropYear: "2025", Name: "Milho"})
	require.NoError(t, err)
	assert.Equal(t, "Milho", culture.Name)

	require.NoError(t, repo.DeleteCulture(ctx, created.ID, culture.ID))

	list, err := repo.ListProducers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Cultures, 1)

	require.NoError(t, repo.DeleteProducer(ctx, created.ID))
	_, err = repo.GetProducer(ctx, created.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestProducerRepositoryPaths(t *testing.T) {
	srv := apitest.NewServer(t)
	p := srv.Seed(entity.Producer{CPFCNPJ: "12345678901", Name: "A", State: "GO", TotalArea: 1})
	repo := NewProducerRepository(newTestClient(t, srv.URL))
	ctx := context.Background()

	_, _ = repo.ListProducers(ctx)
	_, _ = repo.GetProducer(ctx, p.ID)
	_, _ = repo.AddCulture(ctx, p.ID, entity.CultureCreate{CropYear: "2024", Name: "Café"})
	_ = repo.DeleteCulture(ctx, p.ID, 99)
	_ = repo.DeleteProducer(ctx, p.ID)

	var got []string
	for _, c := range srv.Calls() {
		got = append(got, c.Method+" "+c.Path)
		_, err := uuid.Parse(c.RequestID)
		assert.NoError(t, err, "X-Request-ID must be a uuid")
	}
	want := []string{
		"GET /producers/",
		"GET /producers/1",
		"POST /producers/1/cultures/",
		"DELETE /producers/1/cultures/99",
		"DELETE /producers/1",
	}
	assert.Equal(t, want, got)
}

func TestCreateProducerSendsEmptyCultureList(t *testing.T) {
	srv := apitest.NewServer(t)
	repo := NewProducerRepository(newTestClient(t, srv.URL))

	_, err := repo.CreateProducer(context.Background(), entity.ProducerCreate{CPFCNPJ: "12345678901"})
	require.NoError(t, err)

	calls := srv.CallsTo(http.MethodPost, "/producers/")
	require.Len(t, calls, 1)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(calls[0].Body, &body))
	assert.Equal(t, []interface{}{}, body["cultures"])
}

func TestUpdateProducerOmitsCPFCNPJAndUnsetFields(t *testing.T) {
	srv := apitest.NewServer(t)
	p := srv.Seed(entity.Producer{CPFCNPJ: "12345678901", Name: "A"})
	repo := NewProducerRepository(newTestClient(t, srv.URL))

	city := "Rio Verde"
	_, err := repo.UpdateProducer(context.Background(), p.ID, entity.ProducerUpdate{City: &city})
	require.NoError(t, err)

	calls := srv.CallsTo(http.MethodPut, "/producers/1")
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"city":"Rio Verde"}`, string(calls[0].Body))
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"CPF/CNPJ already registered"}`, "CPF/CNPJ already registered"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","name"],"msg":"field required"},{"msg":"bad area"}]}`, "field required; bad area"},
		{"no detail", http.StatusInternalServerError, `oops`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			repo := NewProducerRepository(newTestClient(t, ts.URL))
			_, err := repo.ListProducers(context.Background())
			require.Error(t, err)

			var apiErr *types.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.detail, apiErr.Detail)
			assert.Equal(t, tt.detail, types.DetailOf(err))
		})
	}
}

func TestDashboardRepository(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.Seed(entity.Producer{State: "MT", TotalArea: 100, AgriculturalArea: 60, VegetationArea: 30,
		Cultures: []entity.Culture{{CropYear: "2024", Name: "Soja"}, {CropYear: "2024", Name: "Milho"}}})
	srv.Seed(entity.Producer{State: "MT", TotalArea: 50, AgriculturalArea: 20, VegetationArea: 20,
		Cultures: []entity.Culture{{CropYear: "2023", Name: "Soja"}}})
	srv.Seed(entity.Producer{State: "GO", TotalArea: 10, AgriculturalArea: 5, VegetationArea: 5})

	repo := NewDashboardRepository(newTestClient(t, srv.URL))
	summary, err := repo.GetSummary(context.Background())
	require.NoError(t, err)

	want := entity.DashboardSummary{
		TotalFarms:      3,
		TotalHectares:   160,
		FarmsByState:    map[string]int{"MT": 2, "GO": 1},
		CulturesSummary: map[string]int{"Soja": 2, "Milho": 1},
		AreaBySoilUse:   entity.AreaBySoilUse{Agricultural: 85, Vegetation: 55},
	}
	if diff := cmp.Diff(want, summary); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboardRepositoryNormalizesNilMaps(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_farms":0,"total_hectares":0}`))
	}))
	defer ts.Close()

	summary, err := NewDashboardRepository(newTestClient(t, ts.URL)).GetSummary(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summary.FarmsByState)
	assert.NotNil(t, summary.CulturesSummary)
}
