package usecase

import (
	"fmt"
	"sort"
	"strings"
)

// Mensagens exibidas ao usuário nas views.
const (
	MsgListFailed           = "Failed to load producers. Please try again."
	MsgDeleteFailed         = "Failed to delete producer. Please try again."
	MsgDashboardFailed      = "Failed to load dashboard data. Please try again."
	MsgLoadFailed           = "Failed to load producer data."
	MsgSaveFailed           = "Failed to save producer. Please check your data."
	MsgAddCultureFailed     = "Failed to add culture."
	MsgPartialDeleteFailure = "Producer updated, but failed to delete some cultures."
	MsgAreaSumExceedsTotal  = "Sum of agricultural and vegetation area cannot exceed total area."
	MsgInvalidCPFCNPJ       = "Invalid CPF/CNPJ."
	MsgFillRequired         = "Please fill in all required fields correctly."
	MsgCultureRequired      = "Please fill in both crop year and culture name."
	MsgCultureAdded         = "Culture added successfully!"
	MsgCultureQueued        = "Culture marked for removal. It will be deleted when the producer is saved."
)

// ViewError associa a mensagem exibida na view ao erro que a causou.
type ViewError struct {
	Message string
	Err     error
}

func (e *ViewError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ViewError) Unwrap() error {
	return e.Err
}

// CultureDeletionFailure registra uma remoção de cultura que falhou.
type CultureDeletionFailure struct {
	CultureID int64
	Err       error
}

// PartialFailureError indica que o produtor foi atualizado, mas parte das
// remoções de cultura enfileiradas falhou.
type PartialFailureError struct {
	ProducerID int64
	Failures   []CultureDeletionFailure
}

func (e *PartialFailureError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, fmt.Sprintf("%d (%v)", f.CultureID, f.Err))
	}
	return fmt.Sprintf("producer %d updated, failed to delete cultures: %s", e.ProducerID, strings.Join(ids, ", "))
}

// FailedIDs devolve os IDs das culturas que não foram removidas, em ordem.
func (e *PartialFailureError) FailedIDs() []int64 {
	ids := make([]int64, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.CultureID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
