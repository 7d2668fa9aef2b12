package boiledrepos_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/quiz"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/services/email"
	boiledrepos "github.com/trezcool/academia/storage/database/sqlboiler"
	"github.com/trezcool/academia/tests"
)

func TestUserRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := boiledrepos.NewUserRepository(db, testutil.Engine)
	ctx := context.Background()

	usr := testutil.CreateUser(t, repo, "Amani", "amani@test.cd", "Pwd.12345", user.RoleStudent, true)
	_ = testutil.CreateUser(t, repo, "Baraka", "baraka@test.cd", "", user.RoleTutor, false)

	got, err := repo.GetUser(ctx, user.GetFilter{Email: "amani@test.cd"})
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)
	assert.NoError(t, got.CheckPassword("Pwd.12345"), "the password hash survives a round trip")

	_, err = repo.CreateUser(ctx, user.User{Name: "Dup", Email: "amani@test.cd", Role: user.RoleStudent})
	assert.Equal(t, user.ErrEmailExists, errors.Cause(err))
	assert.Equal(t, user.ErrEmailExists, errors.Cause(repo.CheckEmailUniqueness(ctx, "amani@test.cd")))
	assert.NoError(t, repo.CheckEmailUniqueness(ctx, "amani@test.cd", usr))

	active := true
	users, err := repo.QueryUsers(ctx, &user.QueryFilter{IsActive: &active}, nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, usr.ID, users[0].ID)

	users, err = repo.QueryUsers(ctx, &user.QueryFilter{Search: "BARAKA"}, []core.DBOrdering{{Field: "name", Ascending: true}})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	n, err := repo.DeleteUsersByID(ctx, []string{usr.ID, "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = repo.GetUser(ctx, user.GetFilter{ID: usr.ID})
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}

func TestCourseRepository_Modules(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := boiledrepos.NewCourseRepository(db, testutil.Engine)
	ctx := context.Background()

	crs := testutil.CreateCourse(t, repo, "Go 101", true)
	mods := testutil.CreateModules(t, repo, crs.ID, 20, 5, 10)

	_, err := repo.CreateModule(ctx, course.Module{CourseID: crs.ID, Title: "Dup", Order: 10})
	assert.Equal(t, course.ErrModuleOrderTaken, errors.Cause(err))

	seq, err := repo.QueryModules(ctx, crs.ID)
	require.NoError(t, err)
	require.Len(t, seq, 3)
	assert.Equal(t, []int{5, 10, 20}, []int{seq[0].Order, seq[1].Order, seq[2].Order})

	next, err := repo.GetNextModule(ctx, crs.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, mods[2].ID, next.ID)

	next, err = repo.GetNextModule(ctx, crs.ID, 11)
	require.NoError(t, err)
	assert.Equal(t, mods[0].ID, next.ID)

	_, err = repo.GetNextModule(ctx, crs.ID, 20)
	assert.Equal(t, course.ErrModuleNotFound, errors.Cause(err))

	require.NoError(t, repo.DeleteCourse(ctx, crs.ID))
	_, err = repo.GetModule(ctx, mods[0].ID)
	assert.Equal(t, course.ErrModuleNotFound, errors.Cause(err), "modules are deleted with their course")
	assert.Equal(t, course.ErrNotFound, errors.Cause(repo.DeleteCourse(ctx, crs.ID)))
}

func TestProgressRepository_Upsert(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := boiledrepos.NewProgressRepository(db, testutil.Engine)
	ctx := context.Background()

	usr := testutil.CreateUser(t, boiledrepos.NewUserRepository(db, testutil.Engine), "Amani", "amani@test.cd", "", user.RoleStudent, true)
	courseRepo := boiledrepos.NewCourseRepository(db, testutil.Engine)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101", true)
	mods := testutil.CreateModules(t, courseRepo, crs.ID, 2, 1)

	now := time.Now().UTC().Truncate(time.Second)
	p := progress.Progress{
		UserID: usr.ID, CourseID: crs.ID, ModuleID: mods[0].ID,
		Status: progress.StateUnlocked, CreatedAt: now, UpdatedAt: now,
	}
	first, err := repo.SaveProgress(ctx, p)
	require.NoError(t, err)
	assert.True(t, first.StartedAt.IsZero())

	p.Status = progress.StateCompleted
	p.StartedAt = now
	p.CompletedAt = now
	second, err := repo.SaveProgress(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "saving again updates the same row")
	assert.Equal(t, progress.StateCompleted, second.Status)
	assert.True(t, now.Equal(second.CompletedAt))

	_, err = repo.SaveProgress(ctx, progress.Progress{
		UserID: usr.ID, CourseID: crs.ID, ModuleID: mods[1].ID,
		Status: progress.StateUnlocked, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	p.Status = progress.StateUnlocked
	p.CompletedAt = time.Time{}
	third, err := repo.SaveProgress(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, progress.StateCompleted, third.Status, "a stale save does not move the row backwards")
	assert.True(t, now.Equal(third.CompletedAt))

	ps, err := repo.QueryProgress(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, mods[1].ID, ps[0].ModuleID, "ordered by module order")

	_, err = repo.GetProgress(ctx, usr.ID, crs.ID, "missing")
	assert.Equal(t, progress.ErrNotFound, errors.Cause(err))
}

func TestEnrollmentRepository_EarliestForUserCourse(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := boiledrepos.NewEnrollmentRepository(db, testutil.Engine)
	ctx := context.Background()

	usr := testutil.CreateUser(t, boiledrepos.NewUserRepository(db, testutil.Engine), "Amani", "amani@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, boiledrepos.NewCourseRepository(db, testutil.Engine), "Go 101", true)

	base := time.Now().UTC().Truncate(time.Second)
	newer, err := repo.CreateEnrollment(ctx, enrollment.Enrollment{
		UserID: usr.ID, CourseID: crs.ID, Status: enrollment.StatusPending, PaymentStatus: enrollment.PaymentPending,
		CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
	})
	require.NoError(t, err)
	older, err := repo.CreateEnrollment(ctx, enrollment.Enrollment{
		UserID: usr.ID, CourseID: crs.ID, Status: enrollment.StatusPending, PaymentStatus: enrollment.PaymentPending,
		CreatedAt: base, UpdatedAt: base,
	})
	require.NoError(t, err)

	got, err := repo.GetForUserCourse(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	newer.Status = enrollment.StatusApproved
	_, err = repo.UpdateEnrollment(ctx, newer)
	require.NoError(t, err)

	enrs, err := repo.QueryEnrollments(ctx, &enrollment.QueryFilter{Statuses: []enrollment.Status{enrollment.StatusApproved}})
	require.NoError(t, err)
	require.Len(t, enrs, 1)
	assert.Equal(t, newer.ID, enrs[0].ID)

	_, err = repo.GetForUserCourse(ctx, usr.ID, "missing")
	assert.Equal(t, enrollment.ErrNotFound, errors.Cause(err))
}

func TestCertificateRepository_Unique(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := boiledrepos.NewCertificateRepository(db, testutil.Engine)
	ctx := context.Background()

	usr := testutil.CreateUser(t, boiledrepos.NewUserRepository(db, testutil.Engine), "Amani", "amani@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, boiledrepos.NewCourseRepository(db, testutil.Engine), "Go 101", true)

	cert := certificate.Certificate{
		CertificateID: "CERT-1-AAAA", UserID: usr.ID, CourseID: crs.ID,
		Type: certificate.TypeCompletion, URL: "http://localhost:3000/certificates/CERT-1-AAAA",
		IssuedAt: time.Now().UTC(),
	}
	created, err := repo.CreateCertificate(ctx, cert)
	require.NoError(t, err)

	cert.CertificateID = "CERT-2-BBBB"
	_, err = repo.CreateCertificate(ctx, cert)
	assert.Equal(t, certificate.ErrAlreadyIssued, errors.Cause(err))

	got, err := repo.GetByCertificateID(ctx, "CERT-1-AAAA")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, certificate.TypeCompletion, got.Type)

	_, err = repo.FindForUserCourse(ctx, usr.ID, crs.ID, certificate.TypeParticipation)
	assert.Equal(t, certificate.ErrNotFound, errors.Cause(err))
}

func TestQuizRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	repo := boiledrepos.NewQuizRepository(db, testutil.Engine)
	ctx := context.Background()

	usr := testutil.CreateUser(t, boiledrepos.NewUserRepository(db, testutil.Engine), "Amani", "amani@test.cd", "", user.RoleStudent, true)
	courseRepo := boiledrepos.NewCourseRepository(db, testutil.Engine)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101", true)
	mod := testutil.CreateModules(t, courseRepo, crs.ID, 1)[0]

	now := time.Now().UTC()
	q, err := repo.CreateQuiz(ctx, quiz.Quiz{
		ModuleID: mod.ID, CourseID: crs.ID, Title: "Basics",
		Questions: []quiz.Question{
			{ID: "q2", Position: 2, Prompt: "Second?", Choices: []string{"a", "b"}, CorrectAnswer: "b"},
			{ID: "q1", Position: 1, Prompt: "First?", CorrectAnswer: "42"},
		},
		CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = repo.CreateQuiz(ctx, quiz.Quiz{ModuleID: mod.ID, CourseID: crs.ID, Title: "Again", CreatedAt: now, UpdatedAt: now})
	assert.Equal(t, quiz.ErrModuleHasQuiz, errors.Cause(err))

	got, err := repo.GetQuizForModule(ctx, mod.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "q1", got.Questions[0].ID)
	assert.Equal(t, []string{"a", "b"}, got.Questions[1].Choices)
	assert.Equal(t, "b", got.Questions[1].CorrectAnswer)

	_, err = repo.CreateAttempt(ctx, quiz.Attempt{
		UserID: usr.ID, QuizID: q.ID, Score: 50, Status: quiz.AttemptFailed,
		Answers: map[string]string{"q1": "42", "q2": "a"}, CreatedAt: now,
	})
	require.NoError(t, err)

	attempts, err := repo.QueryAttempts(ctx, usr.ID, q.ID)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, map[string]string{"q1": "42", "q2": "a"}, attempts[0].Answers)
	assert.Equal(t, quiz.AttemptFailed, attempts[0].Status)

	_, err = repo.GetQuiz(ctx, "missing")
	assert.Equal(t, quiz.ErrNotFound, errors.Cause(err))
}

// The quiz submission workflow end to end on SQL storage.
func TestSubmitAttemptOnSQL(t *testing.T) {
	svcs := testutil.NewSQLServices(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, svcs.UserRepo, "Amani", "amani@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, svcs.CourseRepo, "Go 101", true)
	mods := testutil.CreateModules(t, svcs.CourseRepo, crs.ID, 1, 2)

	quizzes := make([]quiz.Quiz, 0, len(mods))
	for _, m := range mods {
		q, err := svcs.Quizzes.Create(ctx, m.ID, quiz.NewQuiz{
			Title:     "Quiz " + m.Title,
			Questions: []quiz.NewQuestion{{Prompt: "2+2?", CorrectAnswer: "4"}},
		})
		require.NoError(t, err)
		quizzes = append(quizzes, q)
	}

	res, err := svcs.Quizzes.SubmitAttempt(ctx, usr.ID, quizzes[0].ID, map[string]string{quizzes[0].Questions[0].ID: "4"})
	require.NoError(t, err)
	assert.True(t, res.Passed)

	ps, err := svcs.Progress.ListForCourse(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, progress.StateCompleted, ps[0].Status)
	assert.Equal(t, progress.StateUnlocked, ps[1].Status)

	for i := 0; i < 2; i++ {
		res, err = svcs.Quizzes.SubmitAttempt(ctx, usr.ID, quizzes[1].ID, map[string]string{quizzes[1].Questions[0].ID: "4"})
		require.NoError(t, err)
		assert.True(t, res.Passed)
	}

	certs, err := svcs.Certificates.QueryForUser(ctx, usr.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, certificate.TypeCompletion, certs[0].Type)
	assert.Len(t, emailsvc.GetSentMessages(), 1)
}
