// Package web serve o console administrativo no navegador.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/domain/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configura o servidor web.
type Options struct {
	// CORSOrigins libera leitura de /dashboard/data.json por outras origens.
	CORSOrigins []string
}

// Server é o console web. Cada requisição monta o próprio ProducerForm a
// partir dos campos enviados; o servidor não guarda estado entre requisições.
type Server struct {
	producers *usecase.ProducerUseCase
	forms     *usecase.ProducerFormUseCase
	dashboard *usecase.DashboardUseCase
	logger    *zap.Logger
	opts      Options
	pages     map[string]*template.Template
}

// NewServer cria o console web e carrega os templates.
func NewServer(
	producers *usecase.ProducerUseCase,
	forms *usecase.ProducerFormUseCase,
	dashboard *usecase.DashboardUseCase,
	logger *zap.Logger,
	opts Options,
) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		producers: producers,
		forms:     forms,
		dashboard: dashboard,
		logger:    logger,
		opts:      opts,
		pages:     map[string]*template.Template{},
	}

	funcs := template.FuncMap{
		"cpf":             validation.FormatCPFCNPJ,
		"area":            func(v float64) string { return fmt.Sprintf("%.2f", v) },
		"removalQuestion": usecase.CultureRemovalQuestion,
		"cultureID":       cultureID,
	}
	for _, page := range []string{"list.html", "form.html", "dashboard.html"} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("error parsing template %s: %w", page, err)
		}
		s.pages[page] = tmpl
	}
	return s, nil
}

// Routes monta a tabela de rotas do console.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", redirectTo("/producers"))

	r.Route("/producers", func(pr chi.Router) {
		pr.Get("/", s.handleList)
		pr.Get("/new", s.handleNewForm)
		pr.Post("/new", s.handleFormPost)
		pr.Get("/edit/{id}", s.handleEditForm)
		pr.Post("/edit/{id}", s.handleFormPost)
		pr.Post("/{id}/delete", s.handleDelete)
	})

	r.Get("/dashboard", s.handleDashboard)
	r.Group(func(api chi.Router) {
		if len(s.opts.CORSOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: s.opts.CORSOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders: []string{"Accept"},
				MaxAge:         300,
			}))
		}
		api.Get("/dashboard/data.json", s.handleDashboardData)
	})

	r.NotFound(redirectTo("/producers"))
	r.MethodNotAllowed(redirectTo("/producers"))
	return r
}

func cultureID(c usecase.FormCulture) string {
	if !c.Persisted() {
		return ""
	}
	return strconv.FormatInt(*c.ID, 10)
}

func redirectTo(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, path, http.StatusFound)
	}
}

// logRequests registra cada requisição no logger estruturado.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("web request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) render(w http.ResponseWriter, page string, status int, data interface{}) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		s.logger.Error("error rendering template", zap.String("page", page), zap.Error(err))
	}
}
