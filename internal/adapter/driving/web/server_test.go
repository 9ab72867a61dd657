package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/diillson/agro-console/internal/adapter/driven/api"
	"github.com/diillson/agro-console/internal/adapter/driven/api/apitest"
	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type webFixture struct {
	api    *apitest.Server
	web    *httptest.Server
	client *http.Client
}

func newWebFixture(t *testing.T, opts Options) *webFixture {
	t.Helper()
	apiSrv := apitest.NewServer(t)
	logger := zaptest.NewLogger(t)

	client, err := api.NewClient(apiSrv.URL, 5*time.Second, logger)
	require.NoError(t, err)
	producerRepo := api.NewProducerRepository(client)
	out := console.NewConsoleWithWriter(io.Discard)
	forms := usecase.NewProducerFormUseCase(producerRepo, logger)
	producers := usecase.NewProducerUseCase(producerRepo, nil, nil, forms, out, logger)
	dashboard := usecase.NewDashboardUseCase(api.NewDashboardRepository(client), nil, out, logger)

	srv, err := NewServer(producers, forms, dashboard, logger, opts)
	require.NoError(t, err)
	webSrv := httptest.NewServer(srv.Routes())
	t.Cleanup(webSrv.Close)

	return &webFixture{
		api: apiSrv,
		web: webSrv,
		client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

func (f *webFixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.client.Get(f.web.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (f *webFixture) post(t *testing.T, path string, values url.Values) *http.Response {
	t.Helper()
	resp, err := f.client.PostForm(f.web.URL+path, values)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func document(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func seed(f *webFixture, cultures ...string) entity.Producer {
	p := entity.Producer{
		CPFCNPJ: "12345678000195", Name: "Coop Sul", FarmName: "Fazenda Sol", City: "Rio Verde", State: "GO",
		TotalArea: 200, AgriculturalArea: 100, VegetationArea: 50,
	}
	for _, name := range cultures {
		p.Cultures = append(p.Cultures, entity.Culture{CropYear: "2024", Name: name})
	}
	return f.api.Seed(p)
}

func producerValues() url.Values {
	return url.Values{
		"cpf_cnpj":          {"123.456.789-01"},
		"name":              {"João da Silva"},
		"farm_name":         {"Fazenda Boa Vista"},
		"city":              {"Sorriso"},
		"state":             {"MT"},
		"total_area":        {"100"},
		"agricultural_area": {"60"},
		"vegetation_area":   {"40"},
	}
}

func TestRedirects(t *testing.T) {
	f := newWebFixture(t, Options{})

	for _, path := range []string{"/", "/unknown", "/producers/edit/abc"} {
		resp := f.get(t, path)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/producers", resp.Header.Get("Location"), path)
	}
}

func TestListRendersProducers(t *testing.T) {
	f := newWebFixture(t, Options{})
	seed(f, "Soja", "Milho")

	resp := f.get(t, "/producers?notice=created")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := document(t, resp)

	rows := doc.Find("#producers tbody tr")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, "Coop Sul", rows.Find(".name").Text())
	assert.Equal(t, "2024 Soja, 2024 Milho", rows.Find(".cultures").Text())
	assert.Contains(t, rows.Text(), "12.345.678/0001-95")
	href, _ := rows.Find("a.edit").Attr("href")
	assert.Equal(t, "/producers/edit/1", href)
	assert.Equal(t, "Producer created successfully!", doc.Find("#notice").Text())
}

func TestListEmptyAndFailure(t *testing.T) {
	f := newWebFixture(t, Options{})
	assert.Equal(t, 1, document(t, f.get(t, "/producers")).Find("#empty").Length())

	f.api.FailWith(http.MethodGet, "/producers/", http.StatusInternalServerError)
	doc := document(t, f.get(t, "/producers"))
	assert.Equal(t, usecase.MsgListFailed, doc.Find("#error").Text())
	assert.Equal(t, 0, doc.Find("#empty").Length())
}

func TestDeleteProducer(t *testing.T) {
	f := newWebFixture(t, Options{})
	p := seed(f)

	resp := f.post(t, "/producers/1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/producers?notice=deleted", resp.Header.Get("Location"))
	_, ok := f.api.Producer(p.ID)
	assert.False(t, ok)
}

func TestDeleteProducerFailure(t *testing.T) {
	f := newWebFixture(t, Options{})
	seed(f)
	f.api.FailWith(http.MethodDelete, "/producers/1", http.StatusInternalServerError)

	resp := f.post(t, "/producers/1/delete", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := document(t, resp)
	assert.Equal(t, usecase.MsgDeleteFailed, doc.Find("#error").Text())
	assert.Equal(t, 1, doc.Find("#producers tbody tr").Length())
}

func TestCreateProducer(t *testing.T) {
	f := newWebFixture(t, Options{})

	values := producerValues()
	values["culture_id"] = []string{"", ""}
	values["culture_year"] = []string{"2023", "2024"}
	values["culture_name"] = []string{"Soja", "Milho"}
	values.Set("action", "save")

	resp := f.post(t, "/producers/new", values)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/producers?notice=created", resp.Header.Get("Location"))

	calls := f.api.CallsTo(http.MethodPost, "/producers/")
	require.Len(t, calls, 1)
	var sent entity.ProducerCreate
	require.NoError(t, json.Unmarshal(calls[0].Body, &sent))
	assert.Equal(t, []entity.CultureCreate{{CropYear: "2023", Name: "Soja"}, {CropYear: "2024", Name: "Milho"}}, sent.Cultures)
	assert.Equal(t, "12345678901", sent.CPFCNPJ)
}

func TestCreateProducerValidation(t *testing.T) {
	f := newWebFixture(t, Options{})

	tests := []struct {
		name  string
		field string
		value string
		msg   string
	}{
		{"area sum", "vegetation_area", "50", usecase.MsgAreaSumExceedsTotal},
		{"cpf", "cpf_cnpj", "123", usecase.MsgInvalidCPFCNPJ},
		{"required", "city", "", usecase.MsgFillRequired},
		{"not a number", "total_area", "muito", usecase.MsgFillRequired},
		{"infinite", "total_area", "Inf", usecase.MsgFillRequired},
		{"nan", "agricultural_area", "NaN", usecase.MsgFillRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := producerValues()
			values.Set(tt.field, tt.value)

			resp := f.post(t, "/producers/new", values)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			doc := document(t, resp)
			assert.Equal(t, tt.msg, doc.Find("#form-error").Text())
			name, _ := doc.Find("#name").Attr("value")
			assert.Equal(t, "João da Silva", name, "fields are kept")
		})
	}
	assert.Empty(t, f.api.Calls())
}

func TestCreateProducerAPIDetail(t *testing.T) {
	f := newWebFixture(t, Options{})
	f.api.Seed(entity.Producer{CPFCNPJ: "12345678901", Name: "Other", FarmName: "x", City: "y", State: "MT", TotalArea: 1})

	resp := f.post(t, "/producers/new", producerValues())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "CPF/CNPJ already registered", document(t, resp).Find("#form-error").Text())
}

func TestAddAndRemoveCultureNewMode(t *testing.T) {
	f := newWebFixture(t, Options{})

	values := producerValues()
	values["culture_id"] = []string{""}
	values["culture_year"] = []string{"2023"}
	values["culture_name"] = []string{"Soja"}
	values.Set("new_crop_year", "2024")
	values.Set("new_culture_name", "Milho")
	values.Set("action", "add-culture")

	resp := f.post(t, "/producers/new", values)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := document(t, resp)
	var names []string
	doc.Find(`input[name="culture_name"]`).Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("value")
		names = append(names, v)
	})
	assert.Equal(t, []string{"Soja", "Milho"}, names)
	newName, _ := doc.Find("#new_culture_name").Attr("value")
	assert.Empty(t, newName)

	values = producerValues()
	values["culture_id"] = []string{"", ""}
	values["culture_year"] = []string{"2023", "2024"}
	values["culture_name"] = []string{"Soja", "Milho"}
	values.Set("remove", "0")
	doc = document(t, f.post(t, "/producers/new", values))
	assert.Equal(t, 1, doc.Find("tr.culture").Length())
	assert.Equal(t, 0, doc.Find(`input[name="delete_culture"]`).Length())

	assert.Empty(t, f.api.Calls(), "new-mode culture changes stay local")
}

func TestAddCultureRequiresBothFields(t *testing.T) {
	f := newWebFixture(t, Options{})

	values := producerValues()
	values.Set("new_crop_year", "2024")
	values.Set("action", "add-culture")

	resp := f.post(t, "/producers/new", values)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	doc := document(t, resp)
	assert.Equal(t, usecase.MsgCultureRequired, doc.Find("#form-error").Text())
	year, _ := doc.Find("#new_crop_year").Attr("value")
	assert.Equal(t, "2024", year)
}

func TestRemoveCultureInvalidIndex(t *testing.T) {
	f := newWebFixture(t, Options{})
	values := producerValues()
	values.Set("remove", "3")
	assert.Equal(t, http.StatusBadRequest, f.post(t, "/producers/new", values).StatusCode)
}

func editValues(p entity.Producer) url.Values {
	values := url.Values{
		"cpf_cnpj":          {p.CPFCNPJ},
		"name":              {p.Name},
		"farm_name":         {p.FarmName},
		"city":              {p.City},
		"state":             {p.State},
		"total_area":        {"200"},
		"agricultural_area": {"100"},
		"vegetation_area":   {"50"},
	}
	return values
}

func TestEditFlow(t *testing.T) {
	f := newWebFixture(t, Options{})
	p := seed(f, "Soja", "Milho")

	doc := document(t, f.get(t, "/producers/edit/1"))
	_, readonly := doc.Find("#cpf_cnpj").Attr("readonly")
	assert.True(t, readonly)
	assert.Equal(t, "Edit Producer | Agro Console", doc.Find("title").Text())
	action, _ := doc.Find("#producer-form").Attr("action")
	assert.Equal(t, "/producers/edit/1", action)
	var ids []string
	doc.Find(`input[name="culture_id"]`).Each(func(_ int, s *goquery.Selection) {
		v, _ := s.Attr("value")
		ids = append(ids, v)
	})
	assert.Equal(t, []string{"2", "3"}, ids)
	onclick, _ := doc.Find(`button[name="remove"]`).First().Attr("onclick")
	assert.Contains(t, onclick, "This action is irreversible.")

	// remove Soja (persisted): queued, not deleted yet
	values := editValues(p)
	values["culture_id"] = []string{"2", "3"}
	values["culture_year"] = []string{"2024", "2024"}
	values["culture_name"] = []string{"Soja", "Milho"}
	values.Set("remove", "0")
	resp := f.post(t, "/producers/edit/1", values)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc = document(t, resp)
	assert.Equal(t, usecase.MsgCultureQueued, doc.Find("#notice").Text())
	queued, _ := doc.Find(`input[name="delete_culture"]`).Attr("value")
	assert.Equal(t, "2", queued)
	assert.Empty(t, f.api.CallsTo(http.MethodDelete, "/producers/1/cultures/2"))

	// save: PUT then DELETE
	values = editValues(p)
	values.Set("name", "Cooperativa Sul")
	values["culture_id"] = []string{"3"}
	values["culture_year"] = []string{"2024"}
	values["culture_name"] = []string{"Milho"}
	values["delete_culture"] = []string{"2"}
	values.Set("action", "save")
	resp = f.post(t, "/producers/edit/1", values)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/producers?notice=updated", resp.Header.Get("Location"))

	var methods []string
	for _, c := range f.api.Calls() {
		if c.Method != http.MethodGet {
			methods = append(methods, c.Method+" "+c.Path)
		}
	}
	assert.Equal(t, []string{"PUT /producers/1", "DELETE /producers/1/cultures/2"}, methods)
	updated, _ := f.api.Producer(p.ID)
	assert.Equal(t, "Cooperativa Sul", updated.Name)
	assert.Equal(t, []string{"2024 Milho"}, updated.CultureNames())
}

func TestEditAddCultureCallsAPI(t *testing.T) {
	f := newWebFixture(t, Options{})
	p := seed(f)

	values := editValues(p)
	values.Set("new_crop_year", "2025")
	values.Set("new_culture_name", "Café")
	values.Set("action", "add-culture")
	doc := document(t, f.post(t, "/producers/edit/1", values))

	assert.Equal(t, usecase.MsgCultureAdded, doc.Find("#notice").Text())
	id, _ := doc.Find(`input[name="culture_id"]`).Attr("value")
	assert.Equal(t, "2", id)
	assert.Len(t, f.api.CallsTo(http.MethodPost, "/producers/1/cultures/"), 1)
}

func TestEditPartialFailureRedirects(t *testing.T) {
	f := newWebFixture(t, Options{})
	p := seed(f, "Soja")
	f.api.FailWith(http.MethodDelete, "/producers/1/cultures/2", http.StatusInternalServerError)

	values := editValues(p)
	values["delete_culture"] = []string{"2"}
	resp := f.post(t, "/producers/edit/1", values)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	loc := resp.Header.Get("Location")
	assert.Equal(t, "/producers?notice=updated&error=partial", loc)

	doc := document(t, f.get(t, loc))
	assert.Equal(t, usecase.MsgPartialDeleteFailure, doc.Find("#error").Text())
}

func TestEditLoadFailure(t *testing.T) {
	f := newWebFixture(t, Options{})

	resp := f.get(t, "/producers/edit/99")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, usecase.MsgLoadFailed, document(t, resp).Find("#form-error").Text())
}

func TestDashboard(t *testing.T) {
	f := newWebFixture(t, Options{})
	f.api.SetSummary(entity.DashboardSummary{
		TotalFarms:      3,
		TotalHectares:   450,
		FarmsByState:    map[string]int{"MT": 2, "GO": 1},
		CulturesSummary: map[string]int{"Soja": 3},
		AreaBySoilUse:   entity.AreaBySoilUse{Agricultural: 300, Vegetation: 100},
	})

	doc := document(t, f.get(t, "/dashboard"))
	assert.Equal(t, "3", doc.Find("#total-farms").Text())
	assert.Equal(t, "450.00", doc.Find("#total-hectares").Text())
	assert.Equal(t, 3, doc.Find("canvas").Length())
	for _, id := range []string{"farmsByStateChart", "culturesChart", "soilUseChart"} {
		assert.Equal(t, 1, doc.Find("#"+id).Length(), id)
	}
	script := doc.Find("script").Last().Text()
	assert.Contains(t, script, `"labels":["GO","MT"]`)
	assert.Contains(t, script, "'doughnut'")
}

func TestDashboardFailure(t *testing.T) {
	f := newWebFixture(t, Options{})
	f.api.FailWith(http.MethodGet, "/dashboard/summary", http.StatusInternalServerError)

	doc := document(t, f.get(t, "/dashboard"))
	assert.Equal(t, usecase.MsgDashboardFailed, doc.Find("#error").Text())
	assert.Equal(t, 0, doc.Find("canvas").Length())

	resp := f.get(t, "/dashboard/data.json")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestDashboardDataCORS(t *testing.T) {
	f := newWebFixture(t, Options{CORSOrigins: []string{"http://reports.example.com"}})
	seed(f, "Soja")

	req, err := http.NewRequest(http.MethodGet, f.web.URL+"/dashboard/data.json", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://reports.example.com")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://reports.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	var data dashboardData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&data))
	assert.Equal(t, 1, data.TotalFarms)
	assert.Equal(t, []string{"GO"}, data.FarmsByState.Labels)
	assert.Equal(t, []string{"Agricultural Area", "Vegetation Area"}, data.SoilUse.Labels)
}

func TestDashboardDataWithoutCORS(t *testing.T) {
	f := newWebFixture(t, Options{})
	req, err := http.NewRequest(http.MethodGet, f.web.URL+"/dashboard/data.json", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://reports.example.com")
	resp, err := f.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "{"))
}
