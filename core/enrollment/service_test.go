package enrollment_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/user"
	"github.com/trezcool/academia/tests"
)

func TestEnroll(t *testing.T) {
	svcs := testutil.NewServices(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, svcs.UserRepo, "Amani", "amani@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, svcs.CourseRepo, "Go 101", true)

	enr, err := svcs.Enrollments.Enroll(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusPending, enr.Status)
	assert.Equal(t, enrollment.PaymentPending, enr.PaymentStatus)

	_, err = svcs.Enrollments.Enroll(ctx, usr.ID, crs.ID)
	assert.Equal(t, enrollment.ErrAlreadyEnrolled, errors.Cause(err))
	assert.True(t, core.IsConflict(err))

	_, err = svcs.Enrollments.Enroll(ctx, usr.ID, "missing")
	assert.Equal(t, course.ErrNotFound, errors.Cause(err))
}

func TestGetForUserCourseReturnsOldest(t *testing.T) {
	svcs := testutil.NewServices(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, svcs.UserRepo, "Amani", "amani@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, svcs.CourseRepo, "Go 101", true)

	first, err := svcs.Enrollments.Create(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	_, err = svcs.Enrollments.Create(ctx, usr.ID, crs.ID)
	require.NoError(t, err)

	got, err := svcs.Enrollments.GetForUserCourse(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		path    []enrollment.Status
		wantErr bool
	}{
		{name: "approve then activate then complete", path: []enrollment.Status{enrollment.StatusApproved, enrollment.StatusActive, enrollment.StatusCompleted}},
		{name: "reject", path: []enrollment.Status{enrollment.StatusRejected}},
		{name: "cancel while active", path: []enrollment.Status{enrollment.StatusApproved, enrollment.StatusActive, enrollment.StatusCancelled}},
		{name: "activate pending", path: []enrollment.Status{enrollment.StatusActive}, wantErr: true},
		{name: "reopen rejected", path: []enrollment.Status{enrollment.StatusRejected, enrollment.StatusPending}, wantErr: true},
		{name: "reject approved", path: []enrollment.Status{enrollment.StatusApproved, enrollment.StatusRejected}, wantErr: true},
		{name: "leave completed", path: []enrollment.Status{enrollment.StatusApproved, enrollment.StatusActive, enrollment.StatusCompleted, enrollment.StatusCancelled}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svcs := testutil.NewServices(t)
			ctx := context.Background()
			usr := testutil.CreateUser(t, svcs.UserRepo, "Amani", "amani@test.cd", "", user.RoleStudent, true)
			crs := testutil.CreateCourse(t, svcs.CourseRepo, "Go 101", true)

			enr, err := svcs.Enrollments.Enroll(ctx, usr.ID, crs.ID)
			require.NoError(t, err)

			for _, st := range tc.path {
				enr, err = svcs.Enrollments.UpdateStatus(ctx, enr, st)
				if err != nil {
					break
				}
			}
			if tc.wantErr {
				var verr *core.ValidationError
				assert.True(t, errors.As(err, &verr), "want a validation error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.path[len(tc.path)-1], enr.Status)
		})
	}
}

func TestActivationUnlocksFirstModule(t *testing.T) {
	svcs := testutil.NewServices(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, svcs.UserRepo, "Amani", "amani@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, svcs.CourseRepo, "Go 101", true)
	mods := testutil.CreateModules(t, svcs.CourseRepo, crs.ID, 20, 10)

	enr, err := svcs.Enrollments.Enroll(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	enr, err = svcs.Enrollments.UpdateStatus(ctx, enr, enrollment.StatusApproved)
	require.NoError(t, err)
	_, err = svcs.Enrollments.UpdateStatus(ctx, enr, enrollment.StatusActive)
	require.NoError(t, err)

	ps, err := svcs.Progress.ListForCourse(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, mods[1].ID, ps[0].ModuleID, "the module with the lowest order is first")
	assert.Equal(t, progress.StateUnlocked, ps[0].Status)
}

func TestUpdatePaymentStatus(t *testing.T) {
	svcs := testutil.NewServices(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, svcs.UserRepo, "Amani", "amani@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, svcs.CourseRepo, "Go 101", true)

	enr, err := svcs.Enrollments.Enroll(ctx, usr.ID, crs.ID)
	require.NoError(t, err)
	enr, err = svcs.Enrollments.UpdatePaymentStatus(ctx, enr, enrollment.PaymentPaid)
	require.NoError(t, err)

	got, err := svcs.Enrollments.GetByID(ctx, enr.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, enrollment.StatusPending, got.Status)
}

func TestStatusValidation(t *testing.T) {
	validate, _ := testutil.NewValidate()

	assert.NoError(t, enrollment.UpdateStatus{Status: enrollment.StatusApproved}.Validate(validate))
	assert.Error(t, enrollment.UpdateStatus{Status: "PAUSED"}.Validate(validate))
	assert.NoError(t, enrollment.UpdatePaymentStatus{PaymentStatus: enrollment.PaymentRefunded}.Validate(validate))
	assert.Error(t, enrollment.UpdatePaymentStatus{PaymentStatus: "FREE"}.Validate(validate))
}
