package user

import (
	"testing"
	"testing/fstest"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	LoadCommonPasswords(fstest.MapFS{
		commonPasswordsPath: {Data: []byte("password\np@$$w0rd\nWelcome1!\n")},
	}, nopLogger{})
	return validate
}

func TestPasswordPolicy(t *testing.T) {
	validate := newValidate(t)

	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "min len", pwd: "lol", wantTag: pwdMinLenTag},
		{name: "no whitespace", pwd: "l o loll", wantTag: pwdNoSpaceTag},
		{name: "not all numeric", pwd: "12345678", wantTag: pwdNotAllNumTag},
		{name: "complexity", pwd: "lol12345", wantTag: pwdComplexityTag},
		{name: "similar to name", pwd: "Mwangi@1", wantTag: pwdAttrSimTag},
		{name: "too common", pwd: "P@$$w0rd", wantTag: pwdNoCommonTag},
		{name: "valid", pwd: "LolC@t123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := NewUser{
				Name:            "Mwangi",
				Email:           "kamau@test.cd",
				Role:            RoleStudent,
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := validate.Struct(nu)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			require.Len(t, vErrs, 1)
			assert.Equal(t, "password", vErrs[0].Field())
			assert.Equal(t, tt.wantTag, vErrs[0].Tag())
		})
	}
}

func TestRoleValidation(t *testing.T) {
	validate := newValidate(t)

	uu := UpdateUser{Role: "SUPERUSER"}
	err := validate.Struct(uu)
	require.Error(t, err)
	vErrs := err.(validator.ValidationErrors)
	assert.Equal(t, "role", vErrs[0].Field())
	assert.Equal(t, roleTag, vErrs[0].Tag())

	uu.Role = RoleTutor
	assert.NoError(t, validate.Struct(uu))
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleAdmin, CapManageUsers, true},
		{RoleAdmin, CapTakeQuizzes, true},
		{RoleTutor, CapManageCourses, true},
		{RoleTutor, CapManageEnquiries, false},
		{RoleStudent, CapTakeQuizzes, true},
		{RoleStudent, CapManageCourses, false},
		{Role("GHOST"), CapTakeQuizzes, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+" "+string(tt.cap), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.cap))
		})
	}

	inactive := User{Role: RoleAdmin, IsActive: false}
	assert.False(t, inactive.Can(CapManageUsers))
}
