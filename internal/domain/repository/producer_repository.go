package repository

import (
	"context"

	"github.com/diillson/agro-console/internal/domain/entity"
)

// ProducerRepository defines the interface for the producers REST API.
type ProducerRepository interface {
	// Producer Operations
	ListProducers(ctx context.Context) ([]entity.Producer, error)
	GetProducer(ctx context.Context, id int64) (entity.Producer, error)
	CreateProducer(ctx context.Context, in entity.ProducerCreate) (entity.Producer, error)
	UpdateProducer(ctx context.Context, id int64, in entity.ProducerUpdate) (entity.Producer, error)
	DeleteProducer(ctx context.Context, id int64) error

	// Culture Operations
	AddCulture(ctx context.Context, producerID int64, in entity.CultureCreate) (entity.Culture, error)
	DeleteCulture(ctx context.Context, producerID, cultureID int64) error
}
