package user

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTutor   Role = "TUTOR"
	RoleStudent Role = "STUDENT"
)

type Capability string

const (
	CapManageUsers          Capability = "users:manage"
	CapManageCourses        Capability = "courses:manage"
	CapTakeQuizzes          Capability = "quizzes:take"
	CapViewAnswers          Capability = "quizzes:answers"
	CapIssueCertificates    Capability = "certificates:issue"
	CapManageEnrollments    Capability = "enrollments:manage"
	CapManageEnquiries      Capability = "enquiries:manage"
	CapModerateTestimonials Capability = "testimonials:moderate"
)

var (
	AllRoles = []Role{RoleStudent, RoleTutor, RoleAdmin}

	roleCapabilities = map[Role][]Capability{
		RoleAdmin: {
			CapManageUsers, CapManageCourses, CapTakeQuizzes, CapViewAnswers, CapIssueCertificates,
			CapManageEnrollments, CapManageEnquiries, CapModerateTestimonials,
		},
		RoleTutor:   {CapManageCourses, CapViewAnswers, CapIssueCertificates},
		RoleStudent: {CapTakeQuizzes},
	}

	Roles = []RoleOption{
		{Name: "Student", Value: RoleStudent},
		{Name: "Tutor", Value: RoleTutor},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type RoleOption struct {
	Name  string `json:"name"`
	Value Role   `json:"value"`
}

func (r Role) IsValid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

func (r Role) Can(c Capability) bool {
	for _, granted := range roleCapabilities[r] {
		if granted == c {
			return true
		}
	}
	return false
}
