package testimonial

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

type Testimonial struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewTestimonial struct {
	Content string `json:"content" validate:"required,max=2000"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
}

func (nt *NewTestimonial) Validate(validate *validator.Validate) error {
	nt.Content = core.CleanString(nt.Content)
	return validate.Struct(nt)
}

type SetPublished struct {
	IsPublished *bool `json:"is_published" validate:"required"`
}

func (sp SetPublished) Validate(validate *validator.Validate) error { return validate.Struct(sp) }

type QueryFilter struct {
	IsPublished *bool `query:"is_published"`
}
