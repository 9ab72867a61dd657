package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/diillson/agro-console/internal/domain/entity"
	"github.com/diillson/agro-console/internal/domain/repository"
)

// ProducerRepositoryImpl implementa o ProducerRepository sobre a API REST.
type ProducerRepositoryImpl struct {
	client *Client
}

// NewProducerRepository cria uma nova implementação do ProducerRepository.
func NewProducerRepository(client *Client) repository.ProducerRepository {
	return &ProducerRepositoryImpl{client: client}
}

func (r *ProducerRepositoryImpl) ListProducers(ctx context.Context) ([]entity.Producer, error) {
	var producers []entity.Producer
	if err := r.client.do(ctx, http.MethodGet, "/producers/", nil, &producers); err != nil {
		return nil, err
	}
	return producers, nil
}

func (r *ProducerRepositoryImpl) GetProducer(ctx context.Context, id int64) (entity.Producer, error) {
	var producer entity.Producer
	err := r.client.do(ctx, http.MethodGet, fmt.Sprintf("/producers/%d", id), nil, &producer)
	return producer, err
}

func (r *ProducerRepositoryImpl) CreateProducer(ctx context.Context, in entity.ProducerCreate) (entity.Producer, error) {
	if in.Cultures == nil {
		in.Cultures = []entity.CultureCreate{}
	}
	var producer entity.Producer
	err := r.client.do(ctx, http.MethodPost, "/producers/", in, &producer)
	return producer, err
}

func (r *ProducerRepositoryImpl) UpdateProducer(ctx context.Context, id int64, in entity.ProducerUpdate) (entity.Producer, error) {
	var producer entity.Producer
	err := r.client.do(ctx, http.MethodPut, fmt.Sprintf("/producers/%d", id), in, &producer)
	return producer, err
}

func (r *ProducerRepositoryImpl) DeleteProducer(ctx context.Context, id int64) error {
	return r.client.do(ctx, http.MethodDelete, fmt.Sprintf("/producers/%d", id), nil, nil)
}

func (r *ProducerRepositoryImpl) AddCulture(ctx context.Context, producerID int64, in entity.CultureCreate) (entity.Culture, error) {
	var culture entity.Culture
	err := r.client.do(ctx, http.MethodPost, fmt.Sprintf("/producers/%d/cultures/", producerID), in, &culture)
	return culture, err
}

func (r *ProducerRepositoryImpl) DeleteCulture(ctx context.Context, producerID, cultureID int64) error {
	return r.client.do(ctx, http.MethodDelete, fmt.Sprintf("/producers/%d/cultures/%d", producerID, cultureID), nil, nil)
}
