package enquiry

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/user"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConverted Status = "CONVERTED"
	StatusResolved  Status = "RESOLVED"
	StatusRejected  Status = "REJECTED"
)

type Enquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CourseID  string    `json:"course_id"`
	Message   string    `json:"message"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewEnquiry struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	CourseID string `json:"course_id"`
	Message  string `json:"message" validate:"required,max=5000"`
}

func (ne *NewEnquiry) Validate(validate *validator.Validate) error {
	ne.Name = core.CleanString(ne.Name)
	ne.Email = core.CleanString(ne.Email, true /* lower */)
	ne.Phone = core.CleanString(ne.Phone)
	ne.CourseID = core.CleanString(ne.CourseID)
	ne.Message = core.CleanString(ne.Message)
	return validate.Struct(ne)
}

type UpdateStatus struct {
	Status Status `json:"status" validate:"required,oneof=RESOLVED REJECTED"`
}

func (us UpdateStatus) Validate(validate *validator.Validate) error { return validate.Struct(us) }

type Convert struct {
	CourseID string `json:"course_id" validate:"required"`
}

func (c Convert) Validate(validate *validator.Validate) error { return validate.Struct(c) }

// Conversion is the outcome of converting an enquiry into an enrollment.
type Conversion struct {
	Enrollment enrollment.Enrollment `json:"enrollment"`
	User       user.Summary          `json:"user"`
}

type QueryFilter struct {
	Search   string   `query:"search"`
	Statuses []Status `query:"status"`
	CourseID string   `query:"course_id"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
