package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/quiz"
	"github.com/trezcool/academia/core/user"
)

func order(n int) *int { return &n }

// buildCourse creates a published course with two quizzed modules through the API.
func buildCourse(t *testing.T, e *env, token string) (course.Course, []course.Module, []quiz.Quiz) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/courses", token, course.NewCourse{Title: "Go 101", IsPublished: true})
	requireCode(t, rec, http.StatusCreated)
	var c course.Course
	decode(t, rec, &c)

	var (
		mods    []course.Module
		quizzes []quiz.Quiz
	)
	for i, title := range []string{"Basics", "Concurrency"} {
		rec = e.do(t, http.MethodPost, "/api/courses/"+c.ID+"/modules", token, course.NewModule{Title: title, Order: order(i + 1)})
		requireCode(t, rec, http.StatusCreated)
		var m course.Module
		decode(t, rec, &m)
		mods = append(mods, m)

		nq := quiz.NewQuiz{
			Title: title + " quiz",
			Questions: []quiz.NewQuestion{
				{Prompt: "2 + 2?", Choices: []string{"3", "4"}, CorrectAnswer: "4"},
				{Prompt: "Gopher?", Choices: []string{"yes", "no"}, CorrectAnswer: "yes"},
			},
		}
		rec = e.do(t, http.MethodPost, "/api/modules/"+m.ID+"/quiz", token, nq)
		requireCode(t, rec, http.StatusCreated)
		var q quiz.Quiz
		decode(t, rec, &q)
		quizzes = append(quizzes, q)
	}
	return c, mods, quizzes
}

func answersFor(q quiz.Quiz, correct bool) map[string]string {
	answers := make(map[string]string, len(q.Questions))
	for _, qn := range q.Questions {
		if correct {
			answers[qn.ID] = qn.CorrectAnswer
		} else {
			answers[qn.ID] = "wrong"
		}
	}
	return answers
}

func Test_learningApi_courseFlow(t *testing.T) {
	e := setup(t)
	tutor := e.createUser(t, "Tutor", "tutor@test.cd", user.RoleTutor, true)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)
	tutorToken, studentToken := e.token(t, tutor), e.token(t, student)

	c, mods, quizzes := buildCourse(t, e, tutorToken)
	assert.Equal(t, tutor.ID, c.TutorID)

	t.Run("students do not see the answers", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/modules/"+mods[0].ID+"/quiz", studentToken, nil)
		requireCode(t, rec, http.StatusOK)
		var q quiz.Quiz
		decode(t, rec, &q)
		require.Len(t, q.Questions, 2)
		for _, qn := range q.Questions {
			assert.Empty(t, qn.CorrectAnswer)
		}
	})

	t.Run("tutors see the answers", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/quizzes/"+quizzes[0].ID, tutorToken, nil)
		requireCode(t, rec, http.StatusOK)
		var q quiz.Quiz
		decode(t, rec, &q)
		assert.Equal(t, "4", q.Questions[0].CorrectAnswer)
	})

	t.Run("tutors cannot take quizzes", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/quizzes/"+quizzes[0].ID+"/attempts", tutorToken, quiz.SubmitAttempt{Answers: answersFor(quizzes[0], true)})
		requireCode(t, rec, http.StatusForbidden)
	})

	rec := e.do(t, http.MethodPost, "/api/modules/"+mods[0].ID+"/start", studentToken, nil)
	requireCode(t, rec, http.StatusOK)

	submit := func(t *testing.T, q quiz.Quiz, correct bool) quiz.Result {
		rec := e.do(t, http.MethodPost, "/api/quizzes/"+q.ID+"/attempts", studentToken, quiz.SubmitAttempt{Answers: answersFor(q, correct)})
		requireCode(t, rec, http.StatusCreated)
		var res quiz.Result
		decode(t, rec, &res)
		return res
	}

	res := submit(t, quizzes[0], false)
	assert.Equal(t, 0, res.Score)
	assert.False(t, res.Passed)
	assert.Equal(t, quiz.AttemptFailed, res.Attempt.Status)

	res = submit(t, quizzes[0], true)
	assert.Equal(t, 100, res.Score)
	assert.True(t, res.Passed)

	rec = e.do(t, http.MethodGet, "/api/courses/"+c.ID+"/progress", studentToken, nil)
	requireCode(t, rec, http.StatusOK)
	var ps []progress.Progress
	decode(t, rec, &ps)
	states := make(map[string]progress.State, len(ps))
	for _, p := range ps {
		states[p.ModuleID] = p.Status
	}
	assert.Equal(t, map[string]progress.State{
		mods[0].ID: progress.StateCompleted,
		mods[1].ID: progress.StateUnlocked,
	}, states)

	rec = e.do(t, http.MethodGet, "/api/quizzes/"+quizzes[0].ID+"/attempts", studentToken, nil)
	requireCode(t, rec, http.StatusOK)
	var attempts []quiz.Attempt
	decode(t, rec, &attempts)
	assert.Len(t, attempts, 2)

	res = submit(t, quizzes[1], true)
	require.True(t, res.Passed)

	rec = e.do(t, http.MethodGet, "/api/certificates", studentToken, nil)
	requireCode(t, rec, http.StatusOK)
	var certs []certificate.Certificate
	decode(t, rec, &certs)
	require.Len(t, certs, 1)
	assert.Equal(t, certificate.TypeCompletion, certs[0].Type)
	assert.Equal(t, c.ID, certs[0].CourseID)

	t.Run("certificate is publicly verifiable", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/certificates/verify/"+certs[0].CertificateID, "", nil)
		requireCode(t, rec, http.StatusOK)
		var got certificate.Certificate
		decode(t, rec, &got)
		assert.Equal(t, student.ID, got.UserID)
	})
}

func Test_courseApi_visibility(t *testing.T) {
	e := setup(t)
	tutor := e.createUser(t, "Tutor", "tutor@test.cd", user.RoleTutor, true)
	other := e.createUser(t, "Other", "other@test.cd", user.RoleTutor, true)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)

	rec := e.do(t, http.MethodPost, "/api/courses", e.token(t, tutor), course.NewCourse{Title: "Draft"})
	requireCode(t, rec, http.StatusCreated)
	var draft course.Course
	decode(t, rec, &draft)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		body     interface{}
		wantCode int
	}{
		{name: "anonymous cannot see a draft", method: http.MethodGet, path: "/api/courses/" + draft.ID, wantCode: http.StatusNotFound},
		{name: "student cannot see a draft", method: http.MethodGet, path: "/api/courses/" + draft.ID, token: e.token(t, student), wantCode: http.StatusNotFound},
		{name: "tutor sees a draft", method: http.MethodGet, path: "/api/courses/" + draft.ID, token: e.token(t, other), wantCode: http.StatusOK},
		{name: "student cannot create courses", method: http.MethodPost, path: "/api/courses", token: e.token(t, student), body: course.NewCourse{Title: "Nope"}, wantCode: http.StatusForbidden},
		{name: "other tutor cannot edit", method: http.MethodPut, path: "/api/courses/" + draft.ID, token: e.token(t, other), body: course.UpdateCourse{Title: "Mine"}, wantCode: http.StatusForbidden},
		{name: "owner edits", method: http.MethodPut, path: "/api/courses/" + draft.ID, token: e.token(t, tutor), body: course.UpdateCourse{Title: "Renamed"}, wantCode: http.StatusOK},
		{name: "missing module order", method: http.MethodPost, path: "/api/courses/" + draft.ID + "/modules", token: e.token(t, tutor), body: course.NewModule{Title: "M"}, wantCode: http.StatusBadRequest},
		{name: "unknown course", method: http.MethodGet, path: "/api/courses/unknown", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.path, tt.token, tt.body)
			requireCode(t, rec, tt.wantCode)
		})
	}

	t.Run("anonymous lists published courses only", func(t *testing.T) {
		created := e.do(t, http.MethodPost, "/api/courses", e.token(t, tutor), course.NewCourse{Title: "Live", IsPublished: true})
		requireCode(t, created, http.StatusCreated)

		rec := e.do(t, http.MethodGet, "/api/courses", "", nil)
		requireCode(t, rec, http.StatusOK)
		var courses []course.Course
		decode(t, rec, &courses)
		require.Len(t, courses, 1)
		assert.Equal(t, "Live", courses[0].Title)
	})

	t.Run("duplicate module order", func(t *testing.T) {
		path := "/api/courses/" + draft.ID + "/modules"
		rec := e.do(t, http.MethodPost, path, e.token(t, tutor), course.NewModule{Title: "One", Order: order(1)})
		requireCode(t, rec, http.StatusCreated)
		rec = e.do(t, http.MethodPost, path, e.token(t, tutor), course.NewModule{Title: "Again", Order: order(1)})
		requireCode(t, rec, http.StatusConflict)
	})
}
