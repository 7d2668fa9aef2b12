package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core/user"
	emailsvc "github.com/trezcool/academia/services/email"
)

func Test_userApi_login(t *testing.T) {
	e := setup(t)
	e.createUser(t, "Active", "active@test.cd", user.RoleStudent, true)
	e.createUser(t, "Gone", "gone@test.cd", user.RoleStudent, false)

	tests := []struct {
		name     string
		email    string
		pwd      string
		wantCode int
	}{
		{name: "valid credentials", email: "active@test.cd", pwd: "Pa$$w0rd!", wantCode: http.StatusOK},
		{name: "email is case insensitive", email: " ACTIVE@test.cd", pwd: "Pa$$w0rd!", wantCode: http.StatusOK},
		{name: "wrong password", email: "active@test.cd", pwd: "nope", wantCode: http.StatusBadRequest},
		{name: "unknown email", email: "ghost@test.cd", pwd: "Pa$$w0rd!", wantCode: http.StatusBadRequest},
		{name: "inactive account", email: "gone@test.cd", pwd: "Pa$$w0rd!", wantCode: http.StatusForbidden},
		{name: "missing fields", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPost, "/api/users/login", "", echoapi.LoginRequest{Email: tt.email, Password: tt.pwd})
			requireCode(t, rec, tt.wantCode)
			if tt.wantCode == http.StatusOK {
				var resp echoapi.LoginResponse
				decode(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_userApi_loginTokenAuthenticates(t *testing.T) {
	e := setup(t)
	admin := e.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)

	rec := e.do(t, http.MethodPost, "/api/users/login", "", echoapi.LoginRequest{Email: admin.Email, Password: "Pa$$w0rd!"})
	requireCode(t, rec, http.StatusOK)
	var resp echoapi.LoginResponse
	decode(t, rec, &resp)

	rec = e.do(t, http.MethodGet, "/api/users/"+admin.ID, resp.Token, nil)
	requireCode(t, rec, http.StatusOK)
	var got user.User
	decode(t, rec, &got)
	assert.Equal(t, admin.Email, got.Email)
	assert.False(t, got.LastLogin.IsZero())
}

func Test_userApi_authorization(t *testing.T) {
	e := setup(t)
	admin := e.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)
	tutor := e.createUser(t, "Tutor", "tutor@test.cd", user.RoleTutor, true)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)
	deactivatedToken := e.token(t, e.createUser(t, "Gone", "gone@test.cd", user.RoleAdmin, false))

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/users", wantCode: http.StatusUnauthorized},
		{name: "garbage token", method: http.MethodGet, path: "/api/users", token: "garbage", wantCode: http.StatusUnauthorized},
		{name: "deactivated caller", method: http.MethodGet, path: "/api/users", token: deactivatedToken, wantCode: http.StatusForbidden},
		{name: "student cannot list users", method: http.MethodGet, path: "/api/users", token: e.token(t, student), wantCode: http.StatusForbidden},
		{name: "tutor cannot list users", method: http.MethodGet, path: "/api/users", token: e.token(t, tutor), wantCode: http.StatusForbidden},
		{name: "admin lists users", method: http.MethodGet, path: "/api/users", token: e.token(t, admin), wantCode: http.StatusOK},
		{name: "self detail", method: http.MethodGet, path: "/api/users/" + student.ID, token: e.token(t, student), wantCode: http.StatusOK},
		{name: "other user's detail is hidden", method: http.MethodGet, path: "/api/users/" + tutor.ID, token: e.token(t, student), wantCode: http.StatusNotFound},
		{name: "admin sees any detail", method: http.MethodGet, path: "/api/users/" + tutor.ID, token: e.token(t, admin), wantCode: http.StatusOK},
		{name: "unknown user", method: http.MethodGet, path: "/api/users/unknown", token: e.token(t, admin), wantCode: http.StatusNotFound},
		{name: "admin cannot delete self", method: http.MethodDelete, path: "/api/users/" + admin.ID, token: e.token(t, admin), wantCode: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, tt.method, tt.path, tt.token, nil)
			requireCode(t, rec, tt.wantCode)
		})
	}
}

func Test_userApi_register(t *testing.T) {
	e := setup(t)
	admin := e.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)
	token := e.token(t, admin)

	nu := user.NewUser{
		Name:            "Amani Tutor",
		Email:           "amani@test.cd",
		Role:            user.RoleTutor,
		Password:        "Zebra#Lake42",
		PasswordConfirm: "Zebra#Lake42",
	}
	rec := e.do(t, http.MethodPost, "/api/users/register", token, nu)
	requireCode(t, rec, http.StatusCreated)
	var created user.User
	decode(t, rec, &created)
	assert.Equal(t, user.RoleTutor, created.Role)
	assert.True(t, created.IsActive)

	t.Run("duplicate email", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/users/register", token, nu)
		requireCode(t, rec, http.StatusBadRequest)
		var fields map[string]string
		decode(t, rec, &fields)
		assert.Contains(t, fields, "email")
	})

	t.Run("weak password", func(t *testing.T) {
		weak := nu
		weak.Email = "weak@test.cd"
		weak.Password, weak.PasswordConfirm = "12345678", "12345678"
		rec := e.do(t, http.MethodPost, "/api/users/register", token, weak)
		requireCode(t, rec, http.StatusBadRequest)
		var fields map[string]string
		decode(t, rec, &fields)
		assert.Contains(t, fields, "password")
	})
}

func Test_userApi_update(t *testing.T) {
	e := setup(t)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)
	admin := e.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)

	t.Run("self may not promote", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/users/"+student.ID, e.token(t, student), user.UpdateUser{Role: user.RoleAdmin})
		require.NotEqual(t, http.StatusOK, rec.Code, rec.Body.String())

		got, err := e.Users.GetByID(context.Background(), student.ID)
		require.NoError(t, err)
		assert.Equal(t, user.RoleStudent, got.Role)
	})

	t.Run("self renames", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/users/"+student.ID, e.token(t, student), user.UpdateUser{Name: "  Baraka  "})
		requireCode(t, rec, http.StatusOK)
		var got user.User
		decode(t, rec, &got)
		assert.Equal(t, "Baraka", got.Name)
	})

	t.Run("admin deactivates", func(t *testing.T) {
		inactive := false
		rec := e.do(t, http.MethodPut, "/api/users/"+student.ID, e.token(t, admin), user.UpdateUser{IsActive: &inactive})
		requireCode(t, rec, http.StatusOK)
		var got user.User
		decode(t, rec, &got)
		assert.False(t, got.IsActive)
	})
}

func Test_userApi_passwordReset(t *testing.T) {
	e := setup(t)
	usr := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)

	// unknown emails get the same answer
	for _, email := range []string{"ghost@test.cd", usr.Email} {
		rec := e.do(t, http.MethodPost, "/api/users/password-reset", "", echoapi.PasswordResetRequest{Email: email})
		requireCode(t, rec, http.StatusOK)
	}

	require.Len(t, emailsvc.GetSentMessages(), 1)
	msg := emailsvc.GetSentMessages()[0]
	assert.Equal(t, usr.Email, msg.To[0].Address)

	token, err := user.MakeToken(usr, e.Conf)
	require.NoError(t, err)
	reset := user.ResetUserPassword{
		UID:             user.EncodeUID(usr),
		Token:           token,
		Password:        "N3w&Better!",
		PasswordConfirm: "N3w&Better!",
	}
	rec := e.do(t, http.MethodPost, "/api/users/password-reset-confirm", "", reset)
	requireCode(t, rec, http.StatusOK)

	rec = e.do(t, http.MethodPost, "/api/users/login", "", echoapi.LoginRequest{Email: usr.Email, Password: reset.Password})
	requireCode(t, rec, http.StatusOK)

	t.Run("token is single use", func(t *testing.T) {
		reset.Password, reset.PasswordConfirm = "Other&Pass9", "Other&Pass9"
		rec := e.do(t, http.MethodPost, "/api/users/password-reset-confirm", "", reset)
		requireCode(t, rec, http.StatusBadRequest)
		assert.True(t, strings.Contains(rec.Body.String(), "token"))
	})
}
