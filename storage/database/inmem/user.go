package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

type userRepository struct {
	db *table[user.User]
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.users}
}

func (repo *userRepository) emailTaken(email string, excludedUsers ...user.User) bool {
	_, taken := repo.db.find(func(u user.User) bool {
		if u.Email != email {
			return false
		}
		for _, ex := range excludedUsers {
			if ex.ID == u.ID {
				return false
			}
		}
		return true
	})
	return taken
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if repo.emailTaken(email, excludedUsers...) {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.emailTaken(usr.Email) {
		return user.User{}, user.ErrEmailExists
	}
	usr.ID = uuid.New().String()
	repo.db.insert(usr.ID, usr)
	return usr, nil
}

func (repo *userRepository) QueryUsers(_ context.Context, filter *user.QueryFilter, ordering []core.DBOrdering) ([]user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	users := repo.db.filter(func(u user.User) bool {
		if filter == nil {
			return true
		}
		if filter.Search != "" && !(containsFold(u.Name, filter.Search) || containsFold(u.Email, filter.Search)) {
			return false
		}
		if len(filter.Roles) > 0 {
			var found bool
			for _, r := range filter.Roles {
				if u.Role == r {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			return false
		}
		if !filter.CreatedFrom.IsZero() && u.CreatedAt.Before(filter.CreatedFrom) {
			return false
		}
		if !filter.CreatedTo.IsZero() && u.CreatedAt.After(filter.CreatedTo) {
			return false
		}
		return true
	})

	sortBy(users, ordering, func(a, b user.User, field string) (int, bool) {
		switch field {
		case "name":
			return compareStrings(a.Name, b.Name), true
		case "email":
			return compareStrings(a.Email, b.Email), true
		case "role":
			return compareStrings(string(a.Role), string(b.Role)), true
		case "created_at":
			return compareTimes(a.CreatedAt, b.CreatedAt), true
		}
		return 0, false
	})
	return users, nil
}

func (repo *userRepository) GetUser(_ context.Context, filter user.GetFilter) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if filter.ID != "" {
		if usr, ok := repo.db.get(filter.ID); ok {
			return usr, nil
		}
		return user.User{}, user.ErrNotFound
	}
	if filter.Email != "" {
		if usr, ok := repo.db.find(func(u user.User) bool { return u.Email == filter.Email }); ok {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if repo.emailTaken(usr.Email, usr) {
		return user.User{}, user.ErrEmailExists
	}
	if !repo.db.update(usr.ID, usr) {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(_ context.Context, ids []string) (int, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var n int
	for _, id := range ids {
		if repo.db.delete(id) {
			n++
		}
	}
	return n, nil
}
