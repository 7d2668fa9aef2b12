package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/enquiry"
)

type enquiryRepository struct {
	db *table[enquiry.Enquiry]
}

var _ enquiry.Repository = (*enquiryRepository)(nil) // interface compliance check

func NewEnquiryRepository(db *DB) enquiry.Repository {
	return &enquiryRepository{db: db.enquiries}
}

func (repo *enquiryRepository) CreateEnquiry(_ context.Context, enq enquiry.Enquiry) (enquiry.Enquiry, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	enq.ID = uuid.New().String()
	repo.db.insert(enq.ID, enq)
	return enq, nil
}

func (repo *enquiryRepository) GetEnquiry(_ context.Context, id string) (enquiry.Enquiry, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if enq, ok := repo.db.get(id); ok {
		return enq, nil
	}
	return enquiry.Enquiry{}, enquiry.ErrNotFound
}

func (repo *enquiryRepository) QueryEnquiries(_ context.Context, filter *enquiry.QueryFilter) ([]enquiry.Enquiry, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return reversed(repo.db.filter(func(enq enquiry.Enquiry) bool {
		if filter == nil {
			return true
		}
		if filter.Search != "" && !(containsFold(enq.Name, filter.Search) || containsFold(enq.Email, filter.Search)) {
			return false
		}
		if filter.CourseID != "" && enq.CourseID != filter.CourseID {
			return false
		}
		if len(filter.Statuses) > 0 {
			for _, s := range filter.Statuses {
				if enq.Status == s {
					return true
				}
			}
			return false
		}
		return true
	})), nil
}

func (repo *enquiryRepository) UpdateEnquiry(_ context.Context, enq enquiry.Enquiry) (enquiry.Enquiry, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if !repo.db.update(enq.ID, enq) {
		return enquiry.Enquiry{}, enquiry.ErrNotFound
	}
	return enq, nil
}
