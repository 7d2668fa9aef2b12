package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
)

type courseRepository struct {
	courses *table[course.Course]
	modules *table[course.Module]
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{courses: db.courses, modules: db.modules}
}

func (repo *courseRepository) CreateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.courses.mu.Lock()
	defer repo.courses.mu.Unlock()

	c.ID = uuid.New().String()
	repo.courses.insert(c.ID, c)
	return c, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (course.Course, error) {
	repo.courses.mu.RLock()
	defer repo.courses.mu.RUnlock()

	if c, ok := repo.courses.get(id); ok {
		return c, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(_ context.Context, filter *course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	repo.courses.mu.RLock()
	defer repo.courses.mu.RUnlock()

	courses := repo.courses.filter(func(c course.Course) bool {
		if filter == nil {
			return true
		}
		if filter.Search != "" && !(containsFold(c.Title, filter.Search) || containsFold(c.Description, filter.Search)) {
			return false
		}
		if filter.TutorID != "" && c.TutorID != filter.TutorID {
			return false
		}
		if filter.IsPublished != nil && c.IsPublished != *filter.IsPublished {
			return false
		}
		return true
	})

	sortBy(courses, ordering, func(a, b course.Course, field string) (int, bool) {
		switch field {
		case "title":
			return compareStrings(a.Title, b.Title), true
		case "created_at":
			return compareTimes(a.CreatedAt, b.CreatedAt), true
		}
		return 0, false
	})
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(_ context.Context, c course.Course) (course.Course, error) {
	repo.courses.mu.Lock()
	defer repo.courses.mu.Unlock()

	if !repo.courses.update(c.ID, c) {
		return course.Course{}, course.ErrNotFound
	}
	return c, nil
}

func (repo *courseRepository) DeleteCourse(_ context.Context, id string) error {
	repo.courses.mu.Lock()
	defer repo.courses.mu.Unlock()
	if !repo.courses.delete(id) {
		return course.ErrNotFound
	}

	repo.modules.mu.Lock()
	defer repo.modules.mu.Unlock()
	for _, m := range repo.modules.filter(func(m course.Module) bool { return m.CourseID == id }) {
		repo.modules.delete(m.ID)
	}
	return nil
}

func (repo *courseRepository) CreateModule(_ context.Context, m course.Module) (course.Module, error) {
	repo.modules.mu.Lock()
	defer repo.modules.mu.Unlock()

	if _, taken := repo.modules.find(func(o course.Module) bool {
		return o.CourseID == m.CourseID && o.Order == m.Order
	}); taken {
		return course.Module{}, course.ErrModuleOrderTaken
	}
	m.ID = uuid.New().String()
	repo.modules.insert(m.ID, m)
	return m, nil
}

func (repo *courseRepository) GetModule(_ context.Context, id string) (course.Module, error) {
	repo.modules.mu.RLock()
	defer repo.modules.mu.RUnlock()

	if m, ok := repo.modules.get(id); ok {
		return m, nil
	}
	return course.Module{}, course.ErrModuleNotFound
}

func (repo *courseRepository) sequence(courseID string) course.Sequence {
	return course.NewSequence(repo.modules.filter(func(m course.Module) bool { return m.CourseID == courseID }))
}

func (repo *courseRepository) QueryModules(_ context.Context, courseID string) ([]course.Module, error) {
	repo.modules.mu.RLock()
	defer repo.modules.mu.RUnlock()
	return repo.sequence(courseID), nil
}

func (repo *courseRepository) GetNextModule(_ context.Context, courseID string, afterOrder int) (course.Module, error) {
	repo.modules.mu.RLock()
	defer repo.modules.mu.RUnlock()

	if next, ok := repo.sequence(courseID).NextAfter(afterOrder); ok {
		return next, nil
	}
	return course.Module{}, course.ErrModuleNotFound
}

func (repo *courseRepository) DeleteModule(_ context.Context, id string) error {
	repo.modules.mu.Lock()
	defer repo.modules.mu.Unlock()

	if !repo.modules.delete(id) {
		return course.ErrModuleNotFound
	}
	return nil
}
