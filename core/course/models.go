package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TutorID     string    `json:"tutor_id"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Module is an ordered unit of a Course. Order is unique within the course.
type Module struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type NewCourse struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	TutorID     string `json:"tutor_id" validate:"omitempty,uuid"`
	IsPublished bool   `json:"is_published"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

type UpdateCourse struct {
	Title       string `json:"title" validate:"omitempty,max=200"`
	Description string `json:"description"`
	TutorID     string `json:"tutor_id" validate:"omitempty,uuid"`
	IsPublished *bool  `json:"is_published"`
}

func (uc *UpdateCourse) Validate(orig Course, validate *validator.Validate) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	if uc.TutorID == "" {
		uc.TutorID = orig.TutorID
	}
	return validate.Struct(uc)
}

type NewModule struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Order       *int   `json:"order" validate:"required,gte=0"`
}

func (nm *NewModule) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	nm.Description = core.CleanString(nm.Description)
	return validate.Struct(nm)
}

type QueryFilter struct {
	Search      string `query:"search"`
	TutorID     string `query:"tutor_id"`
	IsPublished *bool  `query:"is_published"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.TutorID = core.CleanString(qf.TutorID)
}
