// Package testutil holds helpers shared by the test suites.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/storage/database"
)

// Engine is the storage engine PrepareDB migrates.
const Engine = database.EngineSQLite

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// NopLogger returns a core.Logger that discards everything.
func NopLogger() core.Logger { return nopLogger{} }

// PrepareDB opens a fresh, fully migrated SQLite database in a temp dir. It is closed on cleanup.
func PrepareDB(t *testing.T) *sql.DB {
	t.Helper()

	conf := core.NewTestConfig()
	conf.Database.Engine = Engine
	conf.Database.Path = filepath.Join(t.TempDir(), "academia_test.db")

	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("database.Open(): %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db, conf.Database.Engine); err != nil {
		t.Fatalf("database.Migrate(): %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	role user.Role,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateCourse(t *testing.T, repo course.Repository, title string, published bool) course.Course {
	t.Helper()

	now := time.Now().UTC()
	c, err := repo.CreateCourse(context.Background(), course.Course{
		Title:       title,
		IsPublished: published,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return c
}

// CreateModules adds one module per order to the course, titled "Module <order>".
func CreateModules(t *testing.T, repo course.Repository, courseID string, orders ...int) []course.Module {
	t.Helper()

	now := time.Now().UTC()
	mods := make([]course.Module, 0, len(orders))
	for _, order := range orders {
		m, err := repo.CreateModule(context.Background(), course.Module{
			CourseID:  courseID,
			Title:     "Module " + strconv.Itoa(order),
			Order:     order,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateModules() failed: %v", err)
		}
		mods = append(mods, m)
	}
	return mods
}
