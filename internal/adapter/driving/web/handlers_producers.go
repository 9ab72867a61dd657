package web

import (
	"net/http"
	"strconv"

	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/go-chi/chi/v5"
)

// Avisos exibidos na lista depois de um redirecionamento.
var notices = map[string]string{
	"created": "Producer created successfully!",
	"updated": "Producer updated successfully!",
	"deleted": "Producer deleted successfully!",
}

// Erros exibidos na lista depois de um redirecionamento.
var redirectErrors = map[string]string{
	"partial": usecase.MsgPartialDeleteFailure,
}

type listView struct {
	Title     string
	Producers []entity.Producer
	Notice    string
	Error     string
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	view := listView{
		Title:  "Producers",
		Notice: notices[r.URL.Query().Get("notice")],
		Error:  redirectErrors[r.URL.Query().Get("error")],
	}
	producers, err := s.producers.ListProducers(r.Context())
	if err != nil {
		view.Error = usecase.MsgListFailed
	}
	view.Producers = producers
	s.render(w, "list.html", http.StatusOK, view)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := producerID(w, r)
	if !ok {
		return
	}
	if err := s.producers.DeleteProducer(r.Context(), id); err != nil {
		producers, _ := s.producers.ListProducers(r.Context())
		s.render(w, "list.html", http.StatusOK, listView{
			Title:     "Producers",
			Producers: producers,
			Error:     usecase.MsgDeleteFailed,
		})
		return
	}
	http.Redirect(w, r, "/producers?notice=deleted", http.StatusSeeOther)
}

func producerID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Redirect(w, r, "/producers", http.StatusFound)
		return 0, false
	}
	return id, true
}
