package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/testimonial"
)

const testimonialColumns = "id, user_id, name, content, rating, is_published, created_at, updated_at"

type testimonialRow struct {
	ID          string      `boil:"id"`
	UserID      null.String `boil:"user_id"`
	Name        string      `boil:"name"`
	Content     string      `boil:"content"`
	Rating      int         `boil:"rating"`
	IsPublished bool        `boil:"is_published"`
	CreatedAt   time.Time   `boil:"created_at"`
	UpdatedAt   time.Time   `boil:"updated_at"`
}

func (r testimonialRow) unboil() testimonial.Testimonial {
	return testimonial.Testimonial{
		ID:          r.ID,
		UserID:      r.UserID.String,
		Name:        r.Name,
		Content:     r.Content,
		Rating:      r.Rating,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type testimonialRepository struct {
	repo
}

var _ testimonial.Repository = (*testimonialRepository)(nil) // interface compliance check

func NewTestimonialRepository(exec core.DBExecutor, engine string) testimonial.Repository {
	return &testimonialRepository{repo: newRepo(exec, engine)}
}

func (repo *testimonialRepository) CreateTestimonial(ctx context.Context, t testimonial.Testimonial) (testimonial.Testimonial, error) {
	t.ID = uuid.New().String()
	_, err := repo.execute(ctx,
		"INSERT INTO testimonials ("+testimonialColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, null.NewString(t.UserID, t.UserID != ""), t.Name, t.Content, t.Rating, t.IsPublished,
		t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return testimonial.Testimonial{}, errors.Wrap(err, "inserting testimonial")
	}
	return t, nil
}

func (repo *testimonialRepository) GetTestimonial(ctx context.Context, id string) (testimonial.Testimonial, error) {
	var row testimonialRow
	if err := repo.query(ctx, &row, "SELECT "+testimonialColumns+" FROM testimonials WHERE id = ?", id); err != nil {
		return testimonial.Testimonial{}, trapNoRowsErr(err, testimonial.ErrNotFound, "getting testimonial")
	}
	return row.unboil(), nil
}

func (repo *testimonialRepository) QueryTestimonials(ctx context.Context, filter *testimonial.QueryFilter) ([]testimonial.Testimonial, error) {
	q := "SELECT " + testimonialColumns + " FROM testimonials"
	var args []interface{}
	if filter != nil && filter.IsPublished != nil {
		q += " WHERE is_published = ?"
		args = append(args, *filter.IsPublished)
	}
	q += " ORDER BY created_at DESC"

	var rows []testimonialRow
	if err := repo.query(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying testimonials")
	}
	ts := make([]testimonial.Testimonial, 0, len(rows))
	for _, r := range rows {
		ts = append(ts, r.unboil())
	}
	return ts, nil
}

func (repo *testimonialRepository) UpdateTestimonial(ctx context.Context, t testimonial.Testimonial) (testimonial.Testimonial, error) {
	res, err := repo.execute(ctx,
		"UPDATE testimonials SET content = ?, rating = ?, is_published = ?, updated_at = ? WHERE id = ?",
		t.Content, t.Rating, t.IsPublished, t.UpdatedAt.UTC(), t.ID,
	)
	if err != nil {
		return testimonial.Testimonial{}, errors.Wrap(err, "updating testimonial")
	}
	if err = checkAffected(res, testimonial.ErrNotFound); err != nil {
		return testimonial.Testimonial{}, err
	}
	return t, nil
}

func (repo *testimonialRepository) DeleteTestimonial(ctx context.Context, id string) error {
	res, err := repo.execute(ctx, "DELETE FROM testimonials WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting testimonial")
	}
	return checkAffected(res, testimonial.ErrNotFound)
}
