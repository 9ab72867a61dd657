// Package validation concentra as regras de formulário de produtor aplicadas
// no lado do cliente. A API continua sendo a fonte autoritativa.
package validation

import (
	"math"
	"strings"
	"unicode"
)

const (
	cpfLength  = 11
	cnpjLength = 14

	// MinTotalArea é a menor área total aceita (ha).
	MinTotalArea = 0.01
)

// Field names used as keys in FieldErrors.
const (
	FieldCPFCNPJ          = "cpf_cnpj"
	FieldName             = "name"
	FieldFarmName         = "farm_name"
	FieldCity             = "city"
	FieldState            = "state"
	FieldTotalArea        = "total_area"
	FieldAgriculturalArea = "agricultural_area"
	FieldVegetationArea   = "vegetation_area"
)

// Error codes reported per field or for the whole form.
const (
	CodeRequired            = "required"
	CodeMin                 = "min"
	CodeNotANumber          = "number"
	CodeInvalidCPFCNPJ      = "invalidCpfCnpj"
	CodeAreaSumExceedsTotal = "areaSumExceedsTotal"
)

// OnlyDigits remove tudo que não for dígito (pontos, barras, traços, espaços).
func OnlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidCPFCNPJ aceita apenas 11 (CPF) ou 14 (CNPJ) dígitos depois de remover
// a formatação. Dígitos verificadores não são conferidos.
func ValidCPFCNPJ(value string) bool {
	n := len(OnlyDigits(value))
	return n == cpfLength || n == cnpjLength
}

// AreaSumValid indica se agrícola + vegetação cabe na área total.
func AreaSumValid(total, agricultural, vegetation float64) bool {
	return agricultural+vegetation <= total
}

// FormatCPFCNPJ aplica a máscara 000.000.000-00 ou 00.000.000/0000-00.
// Valores que não têm 11 ou 14 dígitos são devolvidos sem alteração.
func FormatCPFCNPJ(value string) string {
	d := OnlyDigits(value)
	switch len(d) {
	case cpfLength:
		return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
	case cnpjLength:
		return d[0:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:14]
	default:
		return value
	}
}

// ProducerInput é a visão plana dos campos do formulário usada na validação.
type ProducerInput struct {
	CPFCNPJ          string
	Name             string
	FarmName         string
	City             string
	State            string
	TotalArea        float64
	AgriculturalArea float64
	VegetationArea   float64
}

// Result guarda os erros por campo e os erros do formulário inteiro.
type Result struct {
	FieldErrors map[string]string
	FormErrors  []string
}

// Valid indica ausência de qualquer erro.
func (r Result) Valid() bool {
	return len(r.FieldErrors) == 0 && len(r.FormErrors) == 0
}

// Has reports whether field carries the given code.
func (r Result) Has(field, code string) bool {
	return r.FieldErrors[field] == code
}

// HasFormError reports whether the form-level code is present.
func (r Result) HasFormError(code string) bool {
	for _, c := range r.FormErrors {
		if c == code {
			return true
		}
	}
	return false
}

// ValidateProducer aplica as regras campo a campo e a regra de soma de áreas.
// Em modo de edição o CPF/CNPJ fica desabilitado e não é validado.
func ValidateProducer(in ProducerInput, editMode bool) Result {
	res := Result{FieldErrors: map[string]string{}}

	if !editMode {
		switch {
		case isBlank(in.CPFCNPJ):
			res.FieldErrors[FieldCPFCNPJ] = CodeRequired
		case !ValidCPFCNPJ(in.CPFCNPJ):
			res.FieldErrors[FieldCPFCNPJ] = CodeInvalidCPFCNPJ
		}
	}

	required := map[string]string{
		FieldName:     in.Name,
		FieldFarmName: in.FarmName,
		FieldCity:     in.City,
		FieldState:    in.State,
	}
	for field, v := range required {
		if isBlank(v) {
			res.FieldErrors[field] = CodeRequired
		}
	}

	finite := true
	for field, v := range map[string]float64{
		FieldTotalArea:        in.TotalArea,
		FieldAgriculturalArea: in.AgriculturalArea,
		FieldVegetationArea:   in.VegetationArea,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			res.FieldErrors[field] = CodeNotANumber
			finite = false
		}
	}

	if in.TotalArea < MinTotalArea {
		res.FieldErrors[FieldTotalArea] = CodeMin
	}
	if in.AgriculturalArea < 0 {
		res.FieldErrors[FieldAgriculturalArea] = CodeMin
	}
	if in.VegetationArea < 0 {
		res.FieldErrors[FieldVegetationArea] = CodeMin
	}

	// Inf/NaN não chegam à regra de soma.
	if finite && !AreaSumValid(in.TotalArea, in.AgriculturalArea, in.VegetationArea) {
		res.FormErrors = append(res.FormErrors, CodeAreaSumExceedsTotal)
	}

	return res
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
