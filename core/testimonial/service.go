package testimonial

import (
	"context"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("testimonial not found")
)

type (
	Repository interface {
		CreateTestimonial(ctx context.Context, t Testimonial) (Testimonial, error)
		GetTestimonial(ctx context.Context, id string) (Testimonial, error)
		// QueryTestimonials returns the matching testimonials, most recent first.
		QueryTestimonials(ctx context.Context, filter *QueryFilter) ([]Testimonial, error)
		UpdateTestimonial(ctx context.Context, t Testimonial) (Testimonial, error)
		DeleteTestimonial(ctx context.Context, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, author user.User, nt NewTestimonial) (Testimonial, error)
		GetByID(ctx context.Context, id string) (Testimonial, error)
		QueryPublished(ctx context.Context) ([]Testimonial, error)
		Query(ctx context.Context, filter *QueryFilter) ([]Testimonial, error)
		SetPublished(ctx context.Context, t Testimonial, published bool) (Testimonial, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

// Create stores an unpublished testimonial signed with the author's name.
func (svc *service) Create(ctx context.Context, author user.User, nt NewTestimonial) (Testimonial, error) {
	now := time.Now().UTC()
	return svc.repo.CreateTestimonial(ctx, Testimonial{
		UserID:    author.ID,
		Name:      author.Name,
		Content:   nt.Content,
		Rating:    nt.Rating,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (svc *service) GetByID(ctx context.Context, id string) (Testimonial, error) {
	return svc.repo.GetTestimonial(ctx, id)
}

func (svc *service) QueryPublished(ctx context.Context) ([]Testimonial, error) {
	published := true
	return svc.repo.QueryTestimonials(ctx, &QueryFilter{IsPublished: &published})
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter) ([]Testimonial, error) {
	return svc.repo.QueryTestimonials(ctx, filter)
}

func (svc *service) SetPublished(ctx context.Context, t Testimonial, published bool) (Testimonial, error) {
	t.IsPublished = published
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTestimonial(ctx, t)
}

func (svc *service) Delete(ctx context.Context, id string) error {
	return svc.repo.DeleteTestimonial(ctx, id)
}
