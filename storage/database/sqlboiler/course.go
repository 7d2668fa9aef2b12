package boiledrepos

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
)

const (
	courseColumns = "id, title, description, tutor_id, is_published, created_at, updated_at"
	moduleColumns = "id, course_id, title, description, sort_order, created_at, updated_at"
)

var courseOrderColumns = map[string]string{
	"title":      "title",
	"created_at": "created_at",
}

type courseRow struct {
	ID          string      `boil:"id"`
	Title       string      `boil:"title"`
	Description string      `boil:"description"`
	TutorID     null.String `boil:"tutor_id"`
	IsPublished bool        `boil:"is_published"`
	CreatedAt   time.Time   `boil:"created_at"`
	UpdatedAt   time.Time   `boil:"updated_at"`
}

func (r courseRow) unboil() course.Course {
	return course.Course{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		TutorID:     r.TutorID.String,
		IsPublished: r.IsPublished,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type moduleRow struct {
	ID          string    `boil:"id"`
	CourseID    string    `boil:"course_id"`
	Title       string    `boil:"title"`
	Description string    `boil:"description"`
	SortOrder   int       `boil:"sort_order"`
	CreatedAt   time.Time `boil:"created_at"`
	UpdatedAt   time.Time `boil:"updated_at"`
}

func (r moduleRow) unboil() course.Module {
	return course.Module{
		ID:          r.ID,
		CourseID:    r.CourseID,
		Title:       r.Title,
		Description: r.Description,
		Order:       r.SortOrder,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

type courseRepository struct {
	repo
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(exec core.DBExecutor, engine string) course.Repository {
	return &courseRepository{repo: newRepo(exec, engine)}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	c.ID = uuid.New().String()
	_, err := repo.execute(ctx,
		"INSERT INTO courses ("+courseColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.ID, c.Title, c.Description, null.NewString(c.TutorID, c.TutorID != ""), c.IsPublished,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return c, nil
}

func (repo *courseRepository) GetCourse(ctx context.Context, id string) (course.Course, error) {
	var row courseRow
	if err := repo.query(ctx, &row, "SELECT "+courseColumns+" FROM courses WHERE id = ?", id); err != nil {
		return course.Course{}, trapNoRowsErr(err, course.ErrNotFound, "getting course")
	}
	return row.unboil(), nil
}

func (repo *courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter != nil {
		if filter.Search != "" {
			conds = append(conds, "(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)")
			args = append(args, likePattern(filter.Search), likePattern(filter.Search))
		}
		if filter.TutorID != "" {
			conds = append(conds, "tutor_id = ?")
			args = append(args, filter.TutorID)
		}
		if filter.IsPublished != nil {
			conds = append(conds, "is_published = ?")
			args = append(args, *filter.IsPublished)
		}
	}

	q := "SELECT " + courseColumns + " FROM courses"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += orderBy(ordering, courseOrderColumns, "created_at ASC")

	var rows []courseRow
	if err := repo.query(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, r := range rows {
		courses = append(courses, r.unboil())
	}
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, c course.Course) (course.Course, error) {
	res, err := repo.execute(ctx,
		"UPDATE courses SET title = ?, description = ?, tutor_id = ?, is_published = ?, updated_at = ? WHERE id = ?",
		c.Title, c.Description, null.NewString(c.TutorID, c.TutorID != ""), c.IsPublished, c.UpdatedAt.UTC(), c.ID,
	)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if err = checkAffected(res, course.ErrNotFound); err != nil {
		return course.Course{}, err
	}
	return c, nil
}

func (repo *courseRepository) DeleteCourse(ctx context.Context, id string) error {
	res, err := repo.execute(ctx, "DELETE FROM courses WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return checkAffected(res, course.ErrNotFound)
}

func (repo *courseRepository) CreateModule(ctx context.Context, m course.Module) (course.Module, error) {
	m.ID = uuid.New().String()
	_, err := repo.execute(ctx,
		"INSERT INTO modules ("+moduleColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		m.ID, m.CourseID, m.Title, m.Description, m.Order, m.CreatedAt.UTC(), m.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return course.Module{}, course.ErrModuleOrderTaken
		}
		return course.Module{}, errors.Wrap(err, "inserting module")
	}
	return m, nil
}

func (repo *courseRepository) GetModule(ctx context.Context, id string) (course.Module, error) {
	var row moduleRow
	if err := repo.query(ctx, &row, "SELECT "+moduleColumns+" FROM modules WHERE id = ?", id); err != nil {
		return course.Module{}, trapNoRowsErr(err, course.ErrModuleNotFound, "getting module")
	}
	return row.unboil(), nil
}

func (repo *courseRepository) QueryModules(ctx context.Context, courseID string) ([]course.Module, error) {
	var rows []moduleRow
	err := repo.query(ctx, &rows, "SELECT "+moduleColumns+" FROM modules WHERE course_id = ? ORDER BY sort_order ASC", courseID)
	if err != nil {
		return nil, errors.Wrap(err, "querying modules")
	}
	mods := make([]course.Module, 0, len(rows))
	for _, r := range rows {
		mods = append(mods, r.unboil())
	}
	return mods, nil
}

func (repo *courseRepository) GetNextModule(ctx context.Context, courseID string, afterOrder int) (course.Module, error) {
	var row moduleRow
	err := repo.query(ctx, &row,
		"SELECT "+moduleColumns+" FROM modules WHERE course_id = ? AND sort_order > ? ORDER BY sort_order ASC LIMIT 1",
		courseID, afterOrder,
	)
	if err != nil {
		return course.Module{}, trapNoRowsErr(err, course.ErrModuleNotFound, "getting next module")
	}
	return row.unboil(), nil
}

func (repo *courseRepository) DeleteModule(ctx context.Context, id string) error {
	res, err := repo.execute(ctx, "DELETE FROM modules WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(err, "deleting module")
	}
	return checkAffected(res, course.ErrModuleNotFound)
}
