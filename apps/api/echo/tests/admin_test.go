package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/testimonial"
	"github.com/trezcool/academia/core/user"
	emailsvc "github.com/trezcool/academia/services/email"
	testutil "github.com/trezcool/academia/tests"
)

func Test_enrollmentApi(t *testing.T) {
	e := setup(t)
	admin := e.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)
	other := e.createUser(t, "Other", "other@test.cd", user.RoleStudent, true)
	adminToken, studentToken := e.token(t, admin), e.token(t, student)

	ctx := context.Background()
	c := testutil.CreateCourse(t, e.CourseRepo, "Go 101", true)
	mods := testutil.CreateModules(t, e.CourseRepo, c.ID, 1, 2)
	_, err := e.Enrollments.Enroll(ctx, other.ID, c.ID)
	require.NoError(t, err)

	rec := e.do(t, http.MethodPost, "/api/enrollments", studentToken, enrollment.NewEnrollment{CourseID: c.ID})
	requireCode(t, rec, http.StatusCreated)
	var enr enrollment.Enrollment
	decode(t, rec, &enr)
	assert.Equal(t, enrollment.StatusPending, enr.Status)
	assert.Equal(t, enrollment.PaymentPending, enr.PaymentStatus)

	t.Run("enrolling twice conflicts", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/enrollments", studentToken, enrollment.NewEnrollment{CourseID: c.ID})
		requireCode(t, rec, http.StatusConflict)
	})

	t.Run("students list their own", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/enrollments", studentToken, nil)
		requireCode(t, rec, http.StatusOK)
		var enrs []enrollment.Enrollment
		decode(t, rec, &enrs)
		require.Len(t, enrs, 1)
		assert.Equal(t, enr.ID, enrs[0].ID)
	})

	t.Run("managers list all", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/enrollments?course_id="+c.ID, adminToken, nil)
		requireCode(t, rec, http.StatusOK)
		var enrs []enrollment.Enrollment
		decode(t, rec, &enrs)
		assert.Len(t, enrs, 2)
	})

	statusPath := "/api/enrollments/" + enr.ID + "/status"
	tests := []struct {
		name     string
		token    string
		status   enrollment.Status
		wantCode int
	}{
		{name: "students cannot approve", token: studentToken, status: enrollment.StatusApproved, wantCode: http.StatusForbidden},
		{name: "unknown status", token: adminToken, status: "LOST", wantCode: http.StatusBadRequest},
		{name: "pending to active skips approval", token: adminToken, status: enrollment.StatusActive, wantCode: http.StatusBadRequest},
		{name: "approve", token: adminToken, status: enrollment.StatusApproved, wantCode: http.StatusOK},
		{name: "activate", token: adminToken, status: enrollment.StatusActive, wantCode: http.StatusOK},
		{name: "no way back to pending", token: adminToken, status: enrollment.StatusPending, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(t, http.MethodPut, statusPath, tt.token, enrollment.UpdateStatus{Status: tt.status})
			requireCode(t, rec, tt.wantCode)
		})
	}

	ps, err := e.Progress.ListForCourse(ctx, student.ID, c.ID)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, mods[0].ID, ps[0].ModuleID)
	assert.Equal(t, progress.StateUnlocked, ps[0].Status)

	rec = e.do(t, http.MethodPut, "/api/enrollments/"+enr.ID+"/payment", adminToken, enrollment.UpdatePaymentStatus{PaymentStatus: enrollment.PaymentPaid})
	requireCode(t, rec, http.StatusOK)
	decode(t, rec, &enr)
	assert.Equal(t, enrollment.PaymentPaid, enr.PaymentStatus)

	rec = e.do(t, http.MethodPut, "/api/enrollments/unknown/payment", adminToken, enrollment.UpdatePaymentStatus{PaymentStatus: enrollment.PaymentPaid})
	requireCode(t, rec, http.StatusNotFound)
}

func Test_certificateApi_issue(t *testing.T) {
	e := setup(t)
	tutor := e.createUser(t, "Tutor", "tutor@test.cd", user.RoleTutor, true)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)
	c := testutil.CreateCourse(t, e.CourseRepo, "Go 101", true)
	ctx := context.Background()

	nc := certificate.NewCertificate{UserID: student.ID, CourseID: c.ID, Type: certificate.TypeParticipation}

	rec := e.do(t, http.MethodPost, "/api/certificates", e.token(t, student), nc)
	requireCode(t, rec, http.StatusForbidden)

	rec = e.do(t, http.MethodPost, "/api/certificates", e.token(t, tutor), nc)
	requireCode(t, rec, http.StatusBadRequest)

	enr, err := e.Enrollments.Enroll(ctx, student.ID, c.ID)
	require.NoError(t, err)
	for _, st := range []enrollment.Status{enrollment.StatusApproved, enrollment.StatusActive} {
		enr, err = e.Enrollments.UpdateStatus(ctx, enr, st)
		require.NoError(t, err)
	}

	rec = e.do(t, http.MethodPost, "/api/certificates", e.token(t, tutor), nc)
	requireCode(t, rec, http.StatusCreated)
	var cert certificate.Certificate
	decode(t, rec, &cert)
	assert.Equal(t, certificate.TypeParticipation, cert.Type)
	assert.Equal(t, "http://localhost:3000/certificates/"+cert.CertificateID, cert.URL)

	rec = e.do(t, http.MethodGet, "/api/certificates/verify/CERT-0-NOPE", "", nil)
	requireCode(t, rec, http.StatusNotFound)
}

func Test_enquiryApi(t *testing.T) {
	e := setup(t)
	admin := e.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)
	adminToken := e.token(t, admin)
	c := testutil.CreateCourse(t, e.CourseRepo, "Go 101", true)

	ne := enquiry.NewEnquiry{Name: "Neema", Email: "Neema@Test.cd", Message: "Is there an evening class?", CourseID: c.ID}
	rec := e.do(t, http.MethodPost, "/api/enquiries", "", ne)
	requireCode(t, rec, http.StatusCreated)
	var enq enquiry.Enquiry
	decode(t, rec, &enq)
	assert.Equal(t, "neema@test.cd", enq.Email)
	assert.Equal(t, enquiry.StatusPending, enq.Status)

	t.Run("invalid enquiry", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/enquiries", "", enquiry.NewEnquiry{Name: "X", Email: "not-an-email"})
		requireCode(t, rec, http.StatusBadRequest)
		var fields map[string]string
		decode(t, rec, &fields)
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "message")
	})

	t.Run("students cannot list", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/enquiries", e.token(t, student), nil)
		requireCode(t, rec, http.StatusForbidden)
	})

	rec = e.do(t, http.MethodGet, "/api/enquiries?status=PENDING", adminToken, nil)
	requireCode(t, rec, http.StatusOK)
	var enqs []enquiry.Enquiry
	decode(t, rec, &enqs)
	require.Len(t, enqs, 1)

	rec = e.do(t, http.MethodPost, "/api/enquiries/"+enq.ID+"/convert", adminToken, enquiry.Convert{CourseID: c.ID})
	requireCode(t, rec, http.StatusOK)
	var conv enquiry.Conversion
	decode(t, rec, &conv)
	assert.Equal(t, "neema@test.cd", conv.User.Email)
	assert.Equal(t, c.ID, conv.Enrollment.CourseID)
	assert.Equal(t, enrollment.StatusPending, conv.Enrollment.Status)
	require.Len(t, emailsvc.GetSentMessages(), 1)
	assert.Equal(t, "welcome_student", emailsvc.GetSentMessages()[0].TemplateName)

	t.Run("converted enquiries keep their status", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/enquiries/"+enq.ID+"/status", adminToken, enquiry.UpdateStatus{Status: enquiry.StatusConverted})
		requireCode(t, rec, http.StatusBadRequest)
	})

	t.Run("unknown enquiry", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/enquiries/unknown/convert", adminToken, enquiry.Convert{CourseID: c.ID})
		requireCode(t, rec, http.StatusNotFound)
	})
}

func Test_testimonialApi(t *testing.T) {
	e := setup(t)
	admin := e.createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, true)
	student := e.createUser(t, "Student", "student@test.cd", user.RoleStudent, true)
	adminToken, studentToken := e.token(t, admin), e.token(t, student)

	rec := e.do(t, http.MethodPost, "/api/testimonials", "", testimonial.NewTestimonial{Content: "Great", Rating: 5})
	requireCode(t, rec, http.StatusUnauthorized)

	rec = e.do(t, http.MethodPost, "/api/testimonials", studentToken, testimonial.NewTestimonial{Content: "Great", Rating: 9})
	requireCode(t, rec, http.StatusBadRequest)

	rec = e.do(t, http.MethodPost, "/api/testimonials", studentToken, testimonial.NewTestimonial{Content: " Great course ", Rating: 5})
	requireCode(t, rec, http.StatusCreated)
	var tm testimonial.Testimonial
	decode(t, rec, &tm)
	assert.Equal(t, student.ID, tm.UserID)
	assert.Equal(t, "Great course", tm.Content)
	assert.False(t, tm.IsPublished)

	published := func(t *testing.T) []testimonial.Testimonial {
		rec := e.do(t, http.MethodGet, "/api/testimonials", "", nil)
		requireCode(t, rec, http.StatusOK)
		var tms []testimonial.Testimonial
		decode(t, rec, &tms)
		return tms
	}
	assert.Empty(t, published(t))

	yes := true
	publishPath := "/api/testimonials/" + tm.ID + "/publish"
	rec = e.do(t, http.MethodPut, publishPath, studentToken, testimonial.SetPublished{IsPublished: &yes})
	requireCode(t, rec, http.StatusForbidden)
	rec = e.do(t, http.MethodPut, publishPath, adminToken, testimonial.SetPublished{})
	requireCode(t, rec, http.StatusBadRequest)
	rec = e.do(t, http.MethodPut, publishPath, adminToken, testimonial.SetPublished{IsPublished: &yes})
	requireCode(t, rec, http.StatusOK)
	assert.Len(t, published(t), 1)

	rec = e.do(t, http.MethodGet, "/api/testimonials/all", adminToken, nil)
	requireCode(t, rec, http.StatusOK)

	rec = e.do(t, http.MethodDelete, "/api/testimonials/"+tm.ID, adminToken, nil)
	requireCode(t, rec, http.StatusNoContent)
	assert.Empty(t, published(t))

	rec = e.do(t, http.MethodDelete, "/api/testimonials/"+tm.ID, adminToken, nil)
	requireCode(t, rec, http.StatusNotFound)
}
