package main

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/storage/database"
	testutil "github.com/trezcool/academia/tests"
)

func setup(t *testing.T) (*commandLine, *testutil.Services) {
	t.Helper()

	svcs := testutil.NewServices(t)
	return &commandLine{
		engine:     testutil.Engine,
		usrSvc:     svcs.Users,
		enquirySvc: svcs.Enquiries,
		out:        new(bytes.Buffer),
	}, svcs
}

func withPassword(t *testing.T, pwd string) {
	t.Helper()

	orig := readPasswordFunc
	readPasswordFunc = func(int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func Test_commandLine_usage(t *testing.T) {
	cli, _ := setup(t)

	for _, args := range [][]string{{"admin"}, {"admin", "lol"}, {"admin", "migrate"}} {
		assert.Equal(t, errHelp, cli.run(args), args)
	}
	assert.Contains(t, cli.out.(*bytes.Buffer).String(), "convertenquiry")
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	type call struct {
		command string
		dir     string
		args    []string
	}
	var got []call
	orig := gooseRunFunc
	gooseRunFunc = func(command string, _ *sql.DB, dir string, args ...string) error {
		got = append(got, call{command: command, dir: dir, args: args})
		return nil
	}
	t.Cleanup(func() { gooseRunFunc = orig })

	require.NoError(t, cli.run([]string{"admin", "migrate", "up"}))
	require.NoError(t, cli.run([]string{"admin", "migrate", "down-to", "1"}))

	assert.Equal(t, []call{
		{command: "up", dir: database.MigrationsDir, args: []string{}},
		{command: "down-to", dir: database.MigrationsDir, args: []string{"1"}},
	}, got)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, svcs := setup(t)
	ctx := context.Background()

	t.Run("usage errors", func(t *testing.T) {
		withPassword(t, "")
		tests := []struct {
			name string
			args []string
		}{
			{name: "no flags", args: []string{"adduser"}},
			{name: "no email", args: []string{"adduser", "-name", "Root"}},
			{name: "invalid role", args: []string{"adduser", "-name", "Root", "-email", "root@test.cd", "-role", "GOD"}},
			{name: "empty password", args: []string{"adduser", "-name", "Root", "-email", "root@test.cd"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, errHelp, cli.run(append([]string{"admin"}, tt.args...)))
			})
		}
	})

	withPassword(t, "s3cret")
	require.NoError(t, cli.run([]string{"admin", "adduser", "-name", "Root", "-email", " Root@Test.cd "}))

	usr, err := svcs.Users.GetByEmail(ctx, "root@test.cd")
	require.NoError(t, err)
	assert.Equal(t, "Root", usr.Name)
	assert.Equal(t, user.RoleAdmin, usr.Role)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("s3cret"))

	// an existing user is updated in place
	withPassword(t, "an0ther")
	require.NoError(t, cli.run([]string{"admin", "adduser", "-name", "Root", "-email", "root@test.cd", "-role", "TUTOR"}))

	updated, err := svcs.Users.GetByEmail(ctx, "root@test.cd")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, updated.ID)
	assert.Equal(t, user.RoleTutor, updated.Role)
	assert.NoError(t, updated.CheckPassword("an0ther"))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, svcs := setup(t)
	usr := testutil.CreateUser(t, svcs.UserRepo, "User", "awe@test.cd", "mdr", user.RoleStudent, true)

	t.Run("no email", func(t *testing.T) {
		assert.Equal(t, errHelp, cli.run([]string{"admin", "resetpassword"}))
	})

	t.Run("no password", func(t *testing.T) {
		withPassword(t, "")
		assert.Equal(t, errHelp, cli.run([]string{"admin", "resetpassword", "-email", usr.Email}))
	})

	t.Run("unknown user", func(t *testing.T) {
		withPassword(t, "lol")
		err := cli.run([]string{"admin", "resetpassword", "-email", "ghost@test.cd"})
		assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	})

	withPassword(t, "lmao")
	require.NoError(t, cli.run([]string{"admin", "resetpassword", "-email", usr.Email}))

	refreshed, err := svcs.Users.GetByID(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.NoError(t, refreshed.CheckPassword("lmao"))
}

func Test_commandLine_convertEnquiry(t *testing.T) {
	cli, svcs := setup(t)
	ctx := context.Background()
	c := testutil.CreateCourse(t, svcs.CourseRepo, "Go 101", true)

	enq, err := svcs.Enquiries.Create(ctx, enquiry.NewEnquiry{Name: "Neema", Email: "neema@test.cd", Message: "Hello"})
	require.NoError(t, err)

	assert.Equal(t, errHelp, cli.run([]string{"admin", "convertenquiry", "-enquiry", enq.ID}))

	err = cli.run([]string{"admin", "convertenquiry", "-enquiry", "unknown", "-course", c.ID})
	assert.Equal(t, enquiry.ErrNotFound, errors.Cause(err))

	require.NoError(t, cli.run([]string{"admin", "convertenquiry", "-enquiry", enq.ID, "-course", c.ID}))
	assert.Contains(t, cli.out.(*bytes.Buffer).String(), "enrolled neema@test.cd")

	student, err := svcs.Users.GetByEmail(ctx, "neema@test.cd")
	require.NoError(t, err)
	enr, err := svcs.Enrollments.GetForUserCourse(ctx, student.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, enr.CourseID)
}
