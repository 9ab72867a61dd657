// Package apitest provides an in-memory producers API for tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

// Call é uma requisição recebida pelo servidor falso.
type Call struct {
	Method    string
	Path      string
	RequestID string
	Body      []byte
}

// Server simula a API de produtores em memória.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	producers map[int64]*entity.Producer
	nextID    int64
	calls     []Call
	failures  map[string]int
	summary   *entity.DashboardSummary

	// DeleteCultureDelay atrasa cada DELETE de cultura, útil para provar o join.
	DeleteCultureDelay time.Duration
}

// NewServer sobe o servidor e registra o Close no t.Cleanup.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		producers: map[int64]*entity.Producer{},
		failures:  map[string]int{},
		nextID:    1,
	}
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route("/producers", func(pr chi.Router) {
		pr.Get("/", s.handleList)
		pr.Post("/", s.handleCreate)
		pr.Get("/{id}", s.handleGet)
		pr.Put("/{id}", s.handleUpdate)
		pr.Delete("/{id}", s.handleDelete)
		pr.Post("/{id}/cultures/", s.handleAddCulture)
		pr.Delete("/{id}/cultures/{cultureID}", s.handleDeleteCulture)
	})
	r.Get("/dashboard/summary", s.handleSummary)

	return r
}

// Seed cadastra um produtor diretamente e devolve uma cópia com IDs atribuídos.
func (s *Server) Seed(p entity.Producer) entity.Producer {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = s.nextID
	s.nextID++
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	p.CreatedAt, p.UpdatedAt = now, now
	cultures := make([]entity.Culture, 0, len(p.Cultures))
	for _, c := range p.Cultures {
		c.ID = s.nextID
		s.nextID++
		c.ProducerID = p.ID
		cultures = append(cultures, c)
	}
	p.Cultures = cultures
	s.producers[p.ID] = &p
	return p
}

// SetSummary define a resposta de /dashboard/summary.
func (s *Server) SetSummary(summary entity.DashboardSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = &summary
}

// FailWith faz a rota "METHOD /path" responder com o status informado.
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Calls devolve as requisições recebidas, em ordem de chegada.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo filtra as chamadas por método e caminho exatos.
func (s *Server) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

// Producer devolve o estado atual de um produtor.
func (s *Server) Producer(id int64) (entity.Producer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.producers[id]
	if !ok {
		return entity.Producer{}, false
	}
	return *p, true
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:    r.Method,
			Path:      r.URL.Path,
			RequestID: r.Header.Get("X-Request-ID"),
			Body:      body,
		})
		status, fail := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]string{"detail": fmt.Sprintf("forced failure %d", status)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.producers))
	for id := range s.producers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]entity.Producer, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.producers[id])
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in entity.ProducerCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	for _, existing := range s.producers {
		if existing.CPFCNPJ == in.CPFCNPJ {
			s.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "CPF/CNPJ already registered"})
			return
		}
	}
	s.mu.Unlock()

	p := entity.Producer{
		CPFCNPJ:          in.CPFCNPJ,
		Name:             in.Name,
		FarmName:         in.FarmName,
		City:             in.City,
		State:            in.State,
		TotalArea:        in.TotalArea,
		AgriculturalArea: in.AgriculturalArea,
		VegetationArea:   in.VegetationArea,
	}
	for _, c := range in.Cultures {
		p.Cultures = append(p.Cultures, entity.Culture{CropYear: c.CropYear, Name: c.Name})
	}
	writeJSON(w, http.StatusCreated, s.Seed(p))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var in entity.ProducerUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	p, found := s.producers[id]
	if !found {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Producer not found"})
		return
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.FarmName != nil {
		p.FarmName = *in.FarmName
	}
	if in.City != nil {
		p.City = *in.City
	}
	if in.State != nil {
		p.State = *in.State
	}
	if in.TotalArea != nil {
		p.TotalArea = *in.TotalArea
	}
	if in.AgriculturalArea != nil {
		p.AgriculturalArea = *in.AgriculturalArea
	}
	if in.VegetationArea != nil {
		p.VegetationArea = *in.VegetationArea
	}
	out := *p
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	_, found := s.producers[id]
	delete(s.producers, id)
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Producer not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddCulture(w http.ResponseWriter, r *http.Request) {
	var in entity.CultureCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	s.mu.Lock()
	p, found := s.producers[id]
	if !found {
		s.mu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Producer not found"})
		return
	}
	c := entity.Culture{ID: s.nextID, ProducerID: id, CropYear: in.CropYear, Name: in.Name}
	s.nextID++
	p.Cultures = append(p.Cultures, c)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleDeleteCulture(w http.ResponseWriter, r *http.Request) {
	if s.DeleteCultureDelay > 0 {
		time.Sleep(s.DeleteCultureDelay)
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	cultureID, ok := pathID(w, r, "cultureID")
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, found := s.producers[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Producer not found"})
		return
	}
	for i, c := range p.Cultures {
		if c.ID == cultureID {
			p.Cultures = append(p.Cultures[:i], p.Cultures[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Culture not found"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.summary != nil {
		writeJSON(w, http.StatusOK, s.summary)
		return
	}

	summary := entity.DashboardSummary{
		FarmsByState:    map[string]int{},
		CulturesSummary: map[string]int{},
	}
	for _, p := range s.producers {
		summary.TotalFarms++
		summary.TotalHectares += p.TotalArea
		summary.FarmsByState[p.State]++
		for _, c := range p.Cultures {
			summary.CulturesSummary[c.Name]++
		}
		summary.AreaBySoilUse.Agricultural += p.AgriculturalArea
		summary.AreaBySoilUse.Vegetation += p.VegetationArea
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (entity.Producer, bool) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return entity.Producer{}, false
	}
	p, found := s.Producer(id)
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Producer not found"})
		return entity.Producer{}, false
	}
	return p, true
}

func pathID(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid id"})
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
