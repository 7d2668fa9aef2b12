package enrollment

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
	StatusRejected  Status = "REJECTED"
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusCancelled: nil,
	StatusRejected:  nil,
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s.IsValid() && len(transitions[s]) == 0
}

func (s Status) CanBecome(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

func (ps PaymentStatus) IsValid() bool {
	switch ps {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Enrollment struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	CourseID      string        `json:"course_id"`
	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"` // UTC
	UpdatedAt     time.Time     `json:"updated_at"` // UTC
}

// Grants reports whether the enrollment gives access to the course content.
func (e Enrollment) Grants() bool {
	return e.Status == StatusActive || e.Status == StatusCompleted
}

type NewEnrollment struct {
	CourseID string `json:"course_id" validate:"required"`
}

func (ne NewEnrollment) Validate(validate *validator.Validate) error { return validate.Struct(ne) }

type UpdateStatus struct {
	Status Status `json:"status" validate:"required,enrollment_status"`
}

func (us UpdateStatus) Validate(validate *validator.Validate) error { return validate.Struct(us) }

type UpdatePaymentStatus struct {
	PaymentStatus PaymentStatus `json:"payment_status" validate:"required,payment_status"`
}

func (up UpdatePaymentStatus) Validate(validate *validator.Validate) error {
	return validate.Struct(up)
}

type QueryFilter struct {
	UserID   string   `query:"user_id"`
	CourseID string   `query:"course_id"`
	Statuses []Status `query:"status"`
}
