package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/testimonial"
)

type testimonialRepository struct {
	db *table[testimonial.Testimonial]
}

var _ testimonial.Repository = (*testimonialRepository)(nil) // interface compliance check

func NewTestimonialRepository(db *DB) testimonial.Repository {
	return &testimonialRepository{db: db.testimonials}
}

func (repo *testimonialRepository) CreateTestimonial(_ context.Context, t testimonial.Testimonial) (testimonial.Testimonial, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	t.ID = uuid.New().String()
	repo.db.insert(t.ID, t)
	return t, nil
}

func (repo *testimonialRepository) GetTestimonial(_ context.Context, id string) (testimonial.Testimonial, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if t, ok := repo.db.get(id); ok {
		return t, nil
	}
	return testimonial.Testimonial{}, testimonial.ErrNotFound
}

func (repo *testimonialRepository) QueryTestimonials(_ context.Context, filter *testimonial.QueryFilter) ([]testimonial.Testimonial, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return reversed(repo.db.filter(func(t testimonial.Testimonial) bool {
		return filter == nil || filter.IsPublished == nil || t.IsPublished == *filter.IsPublished
	})), nil
}

func (repo *testimonialRepository) UpdateTestimonial(_ context.Context, t testimonial.Testimonial) (testimonial.Testimonial, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if !repo.db.update(t.ID, t) {
		return testimonial.Testimonial{}, testimonial.ErrNotFound
	}
	return t, nil
}

func (repo *testimonialRepository) DeleteTestimonial(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if !repo.db.delete(id) {
		return testimonial.ErrNotFound
	}
	return nil
}
