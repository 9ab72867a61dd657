package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAPIURLNotConfigured    = errors.New("API URL not configured. Set AGRO_API_URL (or AGRO_API_URL_PROD for prod) or use --api-url")
	ErrNotFound               = errors.New("resource not found")
	ErrCultureIndexOutOfRange = errors.New("culture index out of range")
	ErrInvalidForm            = errors.New("invalid producer form")
	ErrInvalidCulture         = errors.New("crop year and culture name are required")
	ErrUnsupportedFormat      = errors.New("unsupported file format")
	ErrAborted                = errors.New("operation aborted by user")
)

// APIError representa uma resposta não-2xx da API de produtores.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	// Detail vem do campo "detail" do corpo de erro, quando presente.
	Detail string
	Body   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap permite errors.Is(err, ErrNotFound) para respostas 404.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// DetailOf devolve a mensagem "detail" da API contida em err, se houver.
func DetailOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
