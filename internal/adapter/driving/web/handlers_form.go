package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/diillson/agro-console/internal/application/usecase"
	"github.com/diillson/agro-console/internal/domain/entity"
)

// Ações do formulário, enviadas no botão "action".
const (
	actionSave       = "save"
	actionAddCulture = "add-culture"
)

type formView struct {
	Title      string
	Action     string
	Form       *usecase.ProducerForm
	NewCulture entity.CultureCreate
	Notice     string
}

func (s *Server) handleNewForm(w http.ResponseWriter, r *http.Request) {
	s.renderForm(w, http.StatusOK, formView{Form: s.forms.NewForm()})
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := producerID(w, r)
	if !ok {
		return
	}
	form, err := s.forms.LoadForm(r.Context(), id)
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	s.renderForm(w, status, formView{Form: form})
}

// handleFormPost trata as três ações do formulário: salvar, adicionar cultura
// e remover cultura (botão "remove" com o índice da linha).
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	form := s.forms.NewForm()
	if strings.HasPrefix(r.URL.Path, "/producers/edit/") {
		id, ok := producerID(w, r)
		if !ok {
			return
		}
		form.EditMode = true
		form.ProducerID = id
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	numbersOK := decodeForm(r, form)
	view := formView{Form: form}

	if idx := r.PostForm.Get("remove"); idx != "" {
		index, err := strconv.Atoi(idx)
		if err != nil {
			http.Error(w, "invalid culture index", http.StatusBadRequest)
			return
		}
		removed, err := s.forms.RemoveCulture(form, index)
		if err != nil {
			http.Error(w, "invalid culture index", http.StatusBadRequest)
			return
		}
		if removed.Persisted() && form.EditMode {
			view.Notice = usecase.MsgCultureQueued
		}
		s.renderForm(w, http.StatusOK, view)
		return
	}

	switch r.PostForm.Get("action") {
	case actionAddCulture:
		view.NewCulture = entity.CultureCreate{
			CropYear: r.PostForm.Get("new_crop_year"),
			Name:     r.PostForm.Get("new_culture_name"),
		}
		if err := s.forms.AddCulture(r.Context(), form, view.NewCulture); err != nil {
			s.renderForm(w, http.StatusUnprocessableEntity, view)
			return
		}
		if form.EditMode {
			view.Notice = usecase.MsgCultureAdded
		}
		view.NewCulture = entity.CultureCreate{}
		s.renderForm(w, http.StatusOK, view)
	default:
		if !numbersOK {
			form.Error = usecase.MsgFillRequired
			s.renderForm(w, http.StatusUnprocessableEntity, view)
			return
		}
		result, err := s.forms.Submit(r.Context(), form)
		var partial *usecase.PartialFailureError
		switch {
		case errors.As(err, &partial):
			http.Redirect(w, r, "/producers?notice=updated&error=partial", http.StatusSeeOther)
		case err != nil:
			s.renderForm(w, http.StatusUnprocessableEntity, view)
		case result.Created:
			http.Redirect(w, r, "/producers?notice=created", http.StatusSeeOther)
		default:
			http.Redirect(w, r, "/producers?notice=updated", http.StatusSeeOther)
		}
	}
}

func (s *Server) renderForm(w http.ResponseWriter, status int, view formView) {
	view.Title = "New Producer"
	view.Action = "/producers/new"
	if view.Form.EditMode {
		view.Title = "Edit Producer"
		view.Action = fmt.Sprintf("/producers/edit/%d", view.Form.ProducerID)
	}
	s.render(w, "form.html", status, view)
}

// decodeForm copia os campos enviados para o formulário, incluindo as linhas de
// cultura e a fila de remoções guardadas em campos ocultos. Devolve false se
// alguma área não for numérica.
func decodeForm(r *http.Request, form *usecase.ProducerForm) bool {
	f := &form.Fields
	f.CPFCNPJ = r.PostForm.Get("cpf_cnpj")
	f.Name = r.PostForm.Get("name")
	f.FarmName = r.PostForm.Get("farm_name")
	f.City = r.PostForm.Get("city")
	f.State = r.PostForm.Get("state")

	ok := true
	for name, dst := range map[string]*float64{
		"total_area":        &f.TotalArea,
		"agricultural_area": &f.AgriculturalArea,
		"vegetation_area":   &f.VegetationArea,
	} {
		v, err := parseNumber(r.PostForm.Get(name))
		if err != nil {
			ok = false
		}
		*dst = v
	}

	ids := r.PostForm["culture_id"]
	years := r.PostForm["culture_year"]
	names := r.PostForm["culture_name"]
	for i := 0; i < len(years) && i < len(names); i++ {
		c := usecase.FormCulture{CropYear: years[i], Name: names[i]}
		if i < len(ids) && ids[i] != "" {
			if id, err := strconv.ParseInt(ids[i], 10, 64); err == nil {
				c.ID = &id
				c.ProducerID = form.ProducerID
			}
		}
		form.Cultures = append(form.Cultures, c)
	}

	for _, v := range r.PostForm["delete_culture"] {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			form.CulturesToDelete = append(form.CulturesToDelete, id)
		}
	}
	return ok
}

// parseNumber aceita vírgula decimal e recusa Inf/NaN.
func parseNumber(v string) (float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", "."), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("not a finite number: %q", v)
	}
	return f, nil
}
