// Package tests holds the HTTP level tests of the echo API.
package tests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core/user"
	testutil "github.com/trezcool/academia/tests"
)

type env struct {
	*testutil.Services
	srv *echoapi.Server
}

func setup(t *testing.T) *env {
	t.Helper()

	svcs := testutil.NewServices(t)
	validate, translator := testutil.NewValidate()
	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           svcs.Conf,
		Logger:         svcs.Logger,
		Validate:       validate,
		Translator:     translator,
		UserSvc:        svcs.Users,
		CourseSvc:      svcs.Courses,
		ProgressSvc:    svcs.Progress,
		QuizSvc:        svcs.Quizzes,
		CertificateSvc: svcs.Certificates,
		EnrollmentSvc:  svcs.Enrollments,
		EnquirySvc:     svcs.Enquiries,
		TestimonialSvc: svcs.Testimonials,
	})
	return &env{Services: svcs, srv: srv}
}

func (e *env) createUser(t *testing.T, name, email string, role user.Role, isActive bool) user.User {
	t.Helper()
	return testutil.CreateUser(t, e.UserRepo, name, email, "Pa$$w0rd!", role, isActive)
}

func (e *env) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, e.Conf), e.Conf)
	require.NoError(t, err)
	return token
}

// do serves the request and returns the recorder. body is JSON encoded unless it is nil.
func (e *env) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type httpErr struct {
	Error string `json:"error"`
}

func requireCode(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
}
