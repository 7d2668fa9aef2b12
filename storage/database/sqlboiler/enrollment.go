package boiledrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/enrollment"
)

const enrollmentColumns = "id, user_id, course_id, status, payment_status, created_at, updated_at"

type enrollmentRow struct {
	ID            string    `boil:"id"`
	UserID        string    `boil:"user_id"`
	CourseID      string    `boil:"course_id"`
	Status        string    `boil:"status"`
	PaymentStatus string    `boil:"payment_status"`
	CreatedAt     time.Time `boil:"created_at"`
	UpdatedAt     time.Time `boil:"updated_at"`
}

func (r enrollmentRow) unboil() enrollment.Enrollment {
	return enrollment.Enrollment{
		ID:            r.ID,
		UserID:        r.UserID,
		CourseID:      r.CourseID,
		Status:        enrollment.Status(r.Status),
		PaymentStatus: enrollment.PaymentStatus(r.PaymentStatus),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type enrollmentRepository struct {
	repo
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(exec core.DBExecutor, engine string) enrollment.Repository {
	return &enrollmentRepository{repo: newRepo(exec, engine)}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	e.ID = uuid.New().String()
	_, err := repo.execute(ctx,
		"INSERT INTO enrollments ("+enrollmentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.UserID, e.CourseID, string(e.Status), string(e.PaymentStatus), e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, id string) (enrollment.Enrollment, error) {
	var row enrollmentRow
	if err := repo.query(ctx, &row, "SELECT "+enrollmentColumns+" FROM enrollments WHERE id = ?", id); err != nil {
		return enrollment.Enrollment{}, trapNoRowsErr(err, enrollment.ErrNotFound, "getting enrollment")
	}
	return row.unboil(), nil
}

func (repo *enrollmentRepository) GetForUserCourse(ctx context.Context, userID, courseID string) (enrollment.Enrollment, error) {
	var row enrollmentRow
	err := repo.query(ctx, &row,
		"SELECT "+enrollmentColumns+" FROM enrollments WHERE user_id = ? AND course_id = ? ORDER BY created_at ASC, id ASC LIMIT 1",
		userID, courseID,
	)
	if err != nil {
		return enrollment.Enrollment{}, trapNoRowsErr(err, enrollment.ErrNotFound, "getting enrollment")
	}
	return row.unboil(), nil
}

func (repo *enrollmentRepository) QueryEnrollments(ctx context.Context, filter *enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.UserID != "" {
			conds = append(conds, "user_id = ?")
			args = append(args, filter.UserID)
		}
		if filter.CourseID != "" {
			conds = append(conds, "course_id = ?")
			args = append(args, filter.CourseID)
		}
		if len(filter.Statuses) > 0 {
			statuses := make([]string, 0, len(filter.Statuses))
			for _, s := range filter.Statuses {
				statuses = append(statuses, string(s))
			}
			conds = append(conds, "status IN (?)")
			args = append(args, statuses)
		}
	}

	q := "SELECT " + enrollmentColumns + " FROM enrollments"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	var rows []enrollmentRow
	if err := repo.queryIn(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	enrs := make([]enrollment.Enrollment, 0, len(rows))
	for _, r := range rows {
		enrs = append(enrs, r.unboil())
	}
	return enrs, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	res, err := repo.execute(ctx,
		"UPDATE enrollments SET status = ?, payment_status = ?, updated_at = ? WHERE id = ?",
		string(e.Status), string(e.PaymentStatus), e.UpdatedAt.UTC(), e.ID,
	)
	if err != nil {
		return enrollment.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if err = checkAffected(res, enrollment.ErrNotFound); err != nil {
		return enrollment.Enrollment{}, err
	}
	return e, nil
}
