package boiledrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/enquiry"
)

const enquiryColumns = "id, name, email, phone, course_id, message, status, created_at, updated_at"

type enquiryRow struct {
	ID        string      `boil:"id"`
	Name      string      `boil:"name"`
	Email     string      `boil:"email"`
	Phone     string      `boil:"phone"`
	CourseID  null.String `boil:"course_id"`
	Message   string      `boil:"message"`
	Status    string      `boil:"status"`
	CreatedAt time.Time   `boil:"created_at"`
	UpdatedAt time.Time   `boil:"updated_at"`
}

func (r enquiryRow) unboil() enquiry.Enquiry {
	return enquiry.Enquiry{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		CourseID:  r.CourseID.String,
		Message:   r.Message,
		Status:    enquiry.Status(r.Status),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type enquiryRepository struct {
	repo
}

var _ enquiry.Repository = (*enquiryRepository)(nil) // interface compliance check

func NewEnquiryRepository(exec core.DBExecutor, engine string) enquiry.Repository {
	return &enquiryRepository{repo: newRepo(exec, engine)}
}

func (repo *enquiryRepository) CreateEnquiry(ctx context.Context, enq enquiry.Enquiry) (enquiry.Enquiry, error) {
	enq.ID = uuid.New().String()
	_, err := repo.execute(ctx,
		"INSERT INTO enquiries ("+enquiryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		enq.ID, enq.Name, enq.Email, enq.Phone, null.NewString(enq.CourseID, enq.CourseID != ""), enq.Message,
		string(enq.Status), enq.CreatedAt.UTC(), enq.UpdatedAt.UTC(),
	)
	if err != nil {
		return enquiry.Enquiry{}, errors.Wrap(err, "inserting enquiry")
	}
	return enq, nil
}

func (repo *enquiryRepository) GetEnquiry(ctx context.Context, id string) (enquiry.Enquiry, error) {
	var row enquiryRow
	if err := repo.query(ctx, &row, "SELECT "+enquiryColumns+" FROM enquiries WHERE id = ?", id); err != nil {
		return enquiry.Enquiry{}, trapNoRowsErr(err, enquiry.ErrNotFound, "getting enquiry")
	}
	return row.unboil(), nil
}

func (repo *enquiryRepository) QueryEnquiries(ctx context.Context, filter *enquiry.QueryFilter) ([]enquiry.Enquiry, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Search != "" {
			conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)")
			args = append(args, likePattern(filter.Search), likePattern(filter.Search))
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

	q := "SELECT " + enquiryColumns + " FROM enquiries"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	var rows []enquiryRow
	if err := repo.queryIn(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying enquiries")
	}
	enqs := make([]enquiry.Enquiry, 0, len(rows))
	for _, r := range rows {
		enqs = append(enqs, r.unboil())
	}
	return enqs, nil
}

func (repo *enquiryRepository) UpdateEnquiry(ctx context.Context, enq enquiry.Enquiry) (enquiry.Enquiry, error) {
	res, err := repo.execute(ctx,
		"UPDATE enquiries SET name = ?, email = ?, phone = ?, course_id = ?, message = ?, status = ?, updated_at = ? WHERE id = ?",
		enq.Name, enq.Email, enq.Phone, null.NewString(enq.CourseID, enq.CourseID != ""), enq.Message,
		string(enq.Status), enq.UpdatedAt.UTC(), enq.ID,
	)
	if err != nil {
		return enquiry.Enquiry{}, errors.Wrap(err, "updating enquiry")
	}
	if err = checkAffected(res, enquiry.ErrNotFound); err != nil {
		return enquiry.Enquiry{}, err
	}
	return enq, nil
}
