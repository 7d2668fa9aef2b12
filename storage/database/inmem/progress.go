package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/progress"
)

type progressRepository struct {
	db      *table[progress.Progress]
	modules *table[course.Module]
}

var _ progress.Repository = (*progressRepository)(nil) // interface compliance check

func NewProgressRepository(db *DB) progress.Repository {
	return &progressRepository{db: db.progress, modules: db.modules}
}

func (repo *progressRepository) find(userID, courseID, moduleID string) (progress.Progress, bool) {
	return repo.db.find(func(p progress.Progress) bool {
		return p.UserID == userID && p.CourseID == courseID && p.ModuleID == moduleID
	})
}

func (repo *progressRepository) GetProgress(_ context.Context, userID, courseID, moduleID string) (progress.Progress, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if p, ok := repo.find(userID, courseID, moduleID); ok {
		return p, nil
	}
	return progress.Progress{}, progress.ErrNotFound
}

func (repo *progressRepository) SaveProgress(_ context.Context, p progress.Progress) (progress.Progress, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if existing, ok := repo.find(p.UserID, p.CourseID, p.ModuleID); ok {
		if p.Status.Before(existing.Status) {
			return existing, nil
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		repo.db.update(p.ID, p)
		return p, nil
	}
	p.ID = uuid.New().String()
	repo.db.insert(p.ID, p)
	return p, nil
}

// QueryProgress returns the rows in module order. Rows of deleted modules are left out.
func (repo *progressRepository) QueryProgress(_ context.Context, userID, courseID string) ([]progress.Progress, error) {
	repo.modules.mu.RLock()
	orders := make(map[string]int)
	for _, m := range repo.modules.filter(func(m course.Module) bool { return m.CourseID == courseID }) {
		orders[m.ID] = m.Order
	}
	repo.modules.mu.RUnlock()

	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ps := repo.db.filter(func(p progress.Progress) bool {
		_, ok := orders[p.ModuleID]
		return ok && p.UserID == userID && p.CourseID == courseID
	})
	sort.SliceStable(ps, func(i, j int) bool { return orders[ps[i].ModuleID] < orders[ps[j].ModuleID] })
	return ps, nil
}
