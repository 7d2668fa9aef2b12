package certificate

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Type string

const (
	TypeCompletion    Type = "COMPLETION"
	TypeParticipation Type = "PARTICIPATION"
)

func (t Type) IsValid() bool {
	return t == TypeCompletion || t == TypeParticipation
}

type Certificate struct {
	ID            string    `json:"id"`
	CertificateID string    `json:"certificate_id"`
	UserID        string    `json:"user_id"`
	CourseID      string    `json:"course_id"`
	Type          Type      `json:"type"`
	URL           string    `json:"url"`
	IssuedAt      time.Time `json:"issued_at"` // UTC
}

var suffixEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewCertificateID returns an identifier of the form <prefix>-<unix millis>-<random>.
// Every character is URL-safe.
func NewCertificateID(prefix string, now time.Time) (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%s", strings.ToUpper(prefix), now.UnixMilli(), suffixEncoding.EncodeToString(b)), nil
}

// URLFor returns the public verification page of a certificate.
func URLFor(frontendBaseURL, certificateID string) string {
	return strings.TrimRight(frontendBaseURL, "/") + "/certificates/" + certificateID
}

type NewCertificate struct {
	UserID   string `json:"user_id" validate:"required"`
	CourseID string `json:"course_id" validate:"required"`
	Type     Type   `json:"type" validate:"required,certificate_type"`
}

func (nc NewCertificate) Validate(validate *validator.Validate) error { return validate.Struct(nc) }
