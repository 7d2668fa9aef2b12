package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/enrollment"
)

type enrollmentRepository struct {
	db *table[enrollment.Enrollment]
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enrollment.Repository {
	return &enrollmentRepository{db: db.enrollments}
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	e.ID = uuid.New().String()
	repo.db.insert(e.ID, e)
	return e, nil
}

func (repo *enrollmentRepository) GetEnrollment(_ context.Context, id string) (enrollment.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if e, ok := repo.db.get(id); ok {
		return e, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) GetForUserCourse(_ context.Context, userID, courseID string) (enrollment.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if e, ok := repo.db.find(func(e enrollment.Enrollment) bool {
		return e.UserID == userID && e.CourseID == courseID
	}); ok {
		return e, nil
	}
	return enrollment.Enrollment{}, enrollment.ErrNotFound
}

func (repo *enrollmentRepository) QueryEnrollments(_ context.Context, filter *enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return reversed(repo.db.filter(func(e enrollment.Enrollment) bool {
		if filter == nil {
			return true
		}
		if filter.UserID != "" && e.UserID != filter.UserID {
			return false
		}
		if filter.CourseID != "" && e.CourseID != filter.CourseID {
			return false
		}
		if len(filter.Statuses) > 0 {
			for _, s := range filter.Statuses {
				if e.Status == s {
					return true
				}
			}
			return false
		}
		return true
	})), nil
}

func (repo *enrollmentRepository) UpdateEnrollment(_ context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if !repo.db.update(e.ID, e) {
		return enrollment.Enrollment{}, enrollment.ErrNotFound
	}
	return e, nil
}
