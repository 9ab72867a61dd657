package entity

import "time"

// CultureCreate é o payload para cadastrar uma cultura.
type CultureCreate struct {
	CropYear string `json:"crop_year"`
	Name     string `json:"name"`
}

// Culture representa uma cultura plantada em uma safra, já persistida na API.
type Culture struct {
	ID         int64  `json:"id"`
	ProducerID int64  `json:"producer_id"`
	CropYear   string `json:"crop_year"`
	Name       string `json:"name"`
}

// Producer é o registro completo devolvido pela API.
type Producer struct {
	ID               int64     `json:"id"`
	CPFCNPJ          string    `json:"cpf_cnpj"`
	Name             string    `json:"name"`
	FarmName         string    `json:"farm_name"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	TotalArea        float64   `json:"total_area"`
	AgriculturalArea float64   `json:"agricultural_area"`
	VegetationArea   float64   `json:"vegetation_area"`
	Cultures         []Culture `json:"cultures"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProducerCreate é o payload de criação. As culturas enfileiradas no formulário
// seguem junto na mesma requisição.
type ProducerCreate struct {
	CPFCNPJ          string          `json:"cpf_cnpj"`
	Name             string          `json:"name"`
	FarmName         string          `json:"farm_name"`
	City             string          `json:"city"`
	State            string          `json:"state"`
	TotalArea        float64         `json:"total_area"`
	AgriculturalArea float64         `json:"agricultural_area"`
	VegetationArea   float64         `json:"vegetation_area"`
	Cultures         []CultureCreate `json:"cultures"`
}

// ProducerUpdate é o payload de atualização. CPF/CNPJ não é editável e culturas
// são gerenciadas pelos endpoints próprios.
type ProducerUpdate struct {
	Name             *string  `json:"name,omitempty"`
	FarmName         *string  `json:"farm_name,omitempty"`
	City             *string  `json:"city,omitempty"`
	State            *string  `json:"state,omitempty"`
	TotalArea        *float64 `json:"total_area,omitempty"`
	AgriculturalArea *float64 `json:"agricultural_area,omitempty"`
	VegetationArea   *float64 `json:"vegetation_area,omitempty"`
}

// CultureNames devolve os nomes das culturas no formato "safra nome".
func (p Producer) CultureNames() []string {
	names := make([]string, 0, len(p.Cultures))
	for _, c := range p.Cultures {
		names = append(names, c.CropYear+" "+c.Name)
	}
	return names
}

// ProducerImportRow é uma linha lida da planilha de importação. SheetRow é o
// número da linha na planilha (a partir de 1); Err indica uma célula ilegível.
type ProducerImportRow struct {
	SheetRow int
	Producer ProducerCreate
	Err      error
}
