package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/domain/repository"
	"github.com/diillson/agro-console/internal/domain/validation"
	"github.com/diillson/agro-console/internal/shared/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FormCulture é uma cultura listada no formulário. ID nil indica uma cultura
// ainda não salva na API.
type FormCulture struct {
	ID         *int64 `json:"id,omitempty"`
	ProducerID int64  `json:"producer_id,omitempty"`
	CropYear   string `json:"crop_year"`
	Name       string `json:"name"`
}

// Persisted indica se a cultura já existe na API.
func (c FormCulture) Persisted() bool {
	return c.ID != nil
}

// ProducerForm guarda o estado transitório de um formulário de produtor.
type ProducerForm struct {
	Fields           validation.ProducerInput
	EditMode         bool
	ProducerID       int64
	Cultures         []FormCulture
	CulturesToDelete []int64
	// Error é a mensagem da view; vazia quando não há erro.
	Error string
}

// SubmitResult descreve o que aconteceu em um envio do formulário.
type SubmitResult struct {
	Producer        entity.Producer
	Created         bool
	DeletedCultures []int64
	// Navigate é true quando a view deve voltar para a lista de produtores.
	Navigate bool
}

// ProducerFormUseCase implementa o ciclo de vida do formulário de produtor.
type ProducerFormUseCase struct {
	producerRepo repository.ProducerRepository
	logger       *zap.Logger
}

// NewProducerFormUseCase creates a new producer form use case.
func NewProducerFormUseCase(producerRepo repository.ProducerRepository, logger *zap.Logger) *ProducerFormUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProducerFormUseCase{producerRepo: producerRepo, logger: logger}
}

// NewForm devolve um formulário vazio em modo de criação.
func (uc *ProducerFormUseCase) NewForm() *ProducerForm {
	return &ProducerForm{}
}

// LoadForm busca o produtor e monta o formulário em modo de edição.
func (uc *ProducerFormUseCase) LoadForm(ctx context.Context, id int64) (*ProducerForm, error) {
	form := &ProducerForm{EditMode: true, ProducerID: id}

	producer, err := uc.producerRepo.GetProducer(ctx, id)
	if err != nil {
		uc.logger.Error("error loading producer", zap.Int64("producer_id", id), zap.Error(err))
		form.Error = MsgLoadFailed
		return form, &ViewError{Message: MsgLoadFailed, Err: err}
	}

	form.Fields = validation.ProducerInput{
		CPFCNPJ:          producer.CPFCNPJ,
		Name:             producer.Name,
		FarmName:         producer.FarmName,
		City:             producer.City,
		State:            producer.State,
		TotalArea:        producer.TotalArea,
		AgriculturalArea: producer.AgriculturalArea,
		VegetationArea:   producer.VegetationArea,
	}
	for _, c := range producer.Cultures {
		id := c.ID
		form.Cultures = append(form.Cultures, FormCulture{
			ID:         &id,
			ProducerID: c.ProducerID,
			CropYear:   c.CropYear,
			Name:       c.Name,
		})
	}
	return form, nil
}

// Validate aplica as regras de validação e preenche form.Error com a mensagem
// de maior prioridade.
func (uc *ProducerFormUseCase) Validate(form *ProducerForm) validation.Result {
	res := validation.ValidateProducer(form.Fields, form.EditMode)
	switch {
	case res.Valid():
		form.Error = ""
	case res.HasFormError(validation.CodeAreaSumExceedsTotal):
		form.Error = MsgAreaSumExceedsTotal
	case !form.EditMode && res.Has(validation.FieldCPFCNPJ, validation.CodeInvalidCPFCNPJ):
		form.Error = MsgInvalidCPFCNPJ
	default:
		form.Error = MsgFillRequired
	}
	return res
}

// AddCulture adiciona uma cultura ao formulário. Em modo de edição a cultura é
// criada imediatamente na API; em modo de criação fica só na lista local.
func (uc *ProducerFormUseCase) AddCulture(ctx context.Context, form *ProducerForm, in entity.CultureCreate) error {
	in.CropYear = strings.TrimSpace(in.CropYear)
	in.Name = strings.TrimSpace(in.Name)
	if in.CropYear == "" || in.Name == "" {
		form.Error = MsgCultureRequired
		return types.ErrInvalidCulture
	}

	if !form.EditMode || form.ProducerID == 0 {
		form.Cultures = append(form.Cultures, FormCulture{CropYear: in.CropYear, Name: in.Name})
		return nil
	}

	added, err := uc.producerRepo.AddCulture(ctx, form.ProducerID, in)
	if err != nil {
		uc.logger.Error("error adding culture", zap.Int64("producer_id", form.ProducerID), zap.Error(err))
		form.Error = messageOr(err, MsgAddCultureFailed)
		return &ViewError{Message: form.Error, Err: err}
	}

	id := added.ID
	form.Cultures = append(form.Cultures, FormCulture{
		ID:         &id,
		ProducerID: added.ProducerID,
		CropYear:   added.CropYear,
		Name:       added.Name,
	})
	return nil
}

// RemoveCulture tira a cultura da posição index. Culturas já salvas em modo de
// edição são enfileiradas para remoção no próximo Submit.
func (uc *ProducerFormUseCase) RemoveCulture(form *ProducerForm, index int) (FormCulture, error) {
	if index < 0 || index >= len(form.Cultures) {
		return FormCulture{}, fmt.Errorf("%w: %d", types.ErrCultureIndexOutOfRange, index)
	}

	removed := form.Cultures[index]
	if removed.Persisted() && form.EditMode && form.ProducerID != 0 {
		form.CulturesToDelete = append(form.CulturesToDelete, *removed.ID)
	}
	form.Cultures = append(form.Cultures[:index:index], form.Cultures[index+1:]...)
	return removed, nil
}

// Submit valida e salva o formulário em duas fases: cria/atualiza o produtor e,
// em modo de edição, remove em paralelo as culturas enfileiradas. A função só
// retorna depois que todas as remoções terminam.
func (uc *ProducerFormUseCase) Submit(ctx context.Context, form *ProducerForm) (SubmitResult, error) {
	form.Error = ""
	if res := uc.Validate(form); !res.Valid() {
		return SubmitResult{}, fmt.Errorf("%w: %s", types.ErrInvalidForm, form.Error)
	}

	var (
		producer entity.Producer
		err      error
	)
	if form.EditMode && form.ProducerID != 0 {
		producer, err = uc.producerRepo.UpdateProducer(ctx, form.ProducerID, updatePayload(form.Fields))
	} else {
		producer, err = uc.producerRepo.CreateProducer(ctx, createPayload(form))
	}
	if err != nil {
		uc.logger.Error("error submitting producer", zap.Bool("edit_mode", form.EditMode), zap.Error(err))
		form.Error = messageOr(err, MsgSaveFailed)
		return SubmitResult{}, &ViewError{Message: form.Error, Err: err}
	}

	result := SubmitResult{Producer: producer, Created: !form.EditMode}
	if !form.EditMode || len(form.CulturesToDelete) == 0 {
		result.Navigate = true
		return result, nil
	}

	deleted, failures := uc.deleteCultures(ctx, form.ProducerID, form.CulturesToDelete)
	result.DeletedCultures = deleted
	result.Navigate = true

	if len(failures) > 0 {
		form.Error = MsgPartialDeleteFailure
		form.CulturesToDelete = failedIDs(failures)
		return result, &PartialFailureError{ProducerID: form.ProducerID, Failures: failures}
	}
	form.CulturesToDelete = nil
	return result, nil
}

// deleteCultures dispara um DELETE por cultura e espera todos terminarem,
// coletando cada resultado (sem cancelar os demais em caso de falha).
func (uc *ProducerFormUseCase) deleteCultures(ctx context.Context, producerID int64, ids []int64) ([]int64, []CultureDeletionFailure) {
	var (
		mu       sync.Mutex
		deleted  []int64
		failures []CultureDeletionFailure
		g        errgroup.Group
	)

	for _, cultureID := range ids {
		cultureID := cultureID
		g.Go(func() error {
			err := uc.producerRepo.DeleteCulture(ctx, producerID, cultureID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				uc.logger.Error("error deleting culture",
					zap.Int64("producer_id", producerID),
					zap.Int64("culture_id", cultureID),
					zap.Error(err),
				)
				failures = append(failures, CultureDeletionFailure{CultureID: cultureID, Err: err})
				return err
			}
			deleted = append(deleted, cultureID)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(deleted, func(i, j int) bool { return deleted[i] < deleted[j] })
	sort.Slice(failures, func(i, j int) bool { return failures[i].CultureID < failures[j].CultureID })
	return deleted, failures
}

func createPayload(form *ProducerForm) entity.ProducerCreate {
	f := form.Fields
	cultures := make([]entity.CultureCreate, 0, len(form.Cultures))
	for _, c := range form.Cultures {
		cultures = append(cultures, entity.CultureCreate{CropYear: c.CropYear, Name: c.Name})
	}
	return entity.ProducerCreate{
		CPFCNPJ:          validation.OnlyDigits(f.CPFCNPJ),
		Name:             strings.TrimSpace(f.Name),
		FarmName:         strings.TrimSpace(f.FarmName),
		City:             strings.TrimSpace(f.City),
		State:            strings.ToUpper(strings.TrimSpace(f.State)),
		TotalArea:        f.TotalArea,
		AgriculturalArea: f.AgriculturalArea,
		VegetationArea:   f.VegetationArea,
		Cultures:         cultures,
	}
}

func updatePayload(f validation.ProducerInput) entity.ProducerUpdate {
	name := strings.TrimSpace(f.Name)
	farm := strings.TrimSpace(f.FarmName)
	city := strings.TrimSpace(f.City)
	state := strings.ToUpper(strings.TrimSpace(f.State))
	total, agri, veg := f.TotalArea, f.AgriculturalArea, f.VegetationArea
	return entity.ProducerUpdate{
		Name:             &name,
		FarmName:         &farm,
		City:             &city,
		State:            &state,
		TotalArea:        &total,
		AgriculturalArea: &agri,
		VegetationArea:   &veg,
	}
}

func failedIDs(failures []CultureDeletionFailure) []int64 {
	ids := make([]int64, 0, len(failures))
	for _, f := range failures {
		ids = append(ids, f.CultureID)
	}
	return ids
}

// messageOr prefere o "detail" devolvido pela API à mensagem genérica.
func messageOr(err error, fallback string) string {
	if detail := types.DetailOf(err); detail != "" {
		return detail
	}
	var viewErr *ViewError
	if errors.As(err, &viewErr) {
		return viewErr.Message
	}
	return fallback
}

// CultureRemovalQuestion monta a pergunta de confirmação exibida antes de
// remover uma cultura do formulário.
func CultureRemovalQuestion(c FormCulture, editMode bool) string {
	if c.Persisted() && editMode {
		return fmt.Sprintf("Are you sure you want to remove the culture %q (Crop Year: %s) from this producer? This action is irreversible.", c.Name, c.CropYear)
	}
	return fmt.Sprintf("Are you sure you want to remove the culture %q (Crop Year: %s) from this list (not yet saved)?", c.Name, c.CropYear)
}

// CultureIndex devolve a posição da cultura persistida com o ID informado.
func (f *ProducerForm) CultureIndex(cultureID int64) int {
	for i, c := range f.Cultures {
		if c.Persisted() && *c.ID == cultureID {
			return i
		}
	}
	return -1
}
