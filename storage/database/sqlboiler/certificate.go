package boiledrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
)

const certificateColumns = "id, certificate_id, user_id, course_id, type, url, issued_at"

var errCertificateIDTaken = core.NewConflictError("certificate id already in use")

type certificateRow struct {
	ID            string    `boil:"id"`
	CertificateID string    `boil:"certificate_id"`
	UserID        string    `boil:"user_id"`
	CourseID      string    `boil:"course_id"`
	Type          string    `boil:"type"`
	URL           string    `boil:"url"`
	IssuedAt      time.Time `boil:"issued_at"`
}

func (r certificateRow) unboil() certificate.Certificate {
	return certificate.Certificate{
		ID:            r.ID,
		CertificateID: r.CertificateID,
		UserID:        r.UserID,
		CourseID:      r.CourseID,
		Type:          certificate.Type(r.Type),
		URL:           r.URL,
		IssuedAt:      r.IssuedAt.UTC(),
	}
}

type certificateRepository struct {
	repo
}

var _ certificate.Repository = (*certificateRepository)(nil) // interface compliance check

func NewCertificateRepository(exec core.DBExecutor, engine string) certificate.Repository {
	return &certificateRepository{repo: newRepo(exec, engine)}
}

func (repo *certificateRepository) CreateCertificate(ctx context.Context, cert certificate.Certificate) (certificate.Certificate, error) {
	cert.ID = uuid.New().String()
	_, err := repo.execute(ctx,
		"INSERT INTO certificates ("+certificateColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		cert.ID, cert.CertificateID, cert.UserID, cert.CourseID, string(cert.Type), cert.URL, cert.IssuedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			// tell a duplicate (user, course, type) apart from a certificate id collision
			if _, ferr := repo.FindForUserCourse(ctx, cert.UserID, cert.CourseID, cert.Type); ferr == nil {
				return certificate.Certificate{}, certificate.ErrAlreadyIssued
			}
			return certificate.Certificate{}, errCertificateIDTaken
		}
		return certificate.Certificate{}, errors.Wrap(err, "inserting certificate")
	}
	return cert, nil
}

func (repo *certificateRepository) GetByCertificateID(ctx context.Context, certificateID string) (certificate.Certificate, error) {
	var row certificateRow
	err := repo.query(ctx, &row, "SELECT "+certificateColumns+" FROM certificates WHERE certificate_id = ?", certificateID)
	if err != nil {
		return certificate.Certificate{}, trapNoRowsErr(err, certificate.ErrNotFound, "getting certificate")
	}
	return row.unboil(), nil
}

func (repo *certificateRepository) FindForUserCourse(ctx context.Context, userID, courseID string, typ certificate.Type) (certificate.Certificate, error) {
	var row certificateRow
	err := repo.query(ctx, &row,
		"SELECT "+certificateColumns+" FROM certificates WHERE user_id = ? AND course_id = ? AND type = ?",
		userID, courseID, string(typ),
	)
	if err != nil {
		return certificate.Certificate{}, trapNoRowsErr(err, certificate.ErrNotFound, "finding certificate")
	}
	return row.unboil(), nil
}

func (repo *certificateRepository) QueryForUser(ctx context.Context, userID string) ([]certificate.Certificate, error) {
	var rows []certificateRow
	err := repo.query(ctx, &rows, "SELECT "+certificateColumns+" FROM certificates WHERE user_id = ? ORDER BY issued_at DESC", userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying certificates")
	}
	certs := make([]certificate.Certificate, 0, len(rows))
	for _, r := range rows {
		certs = append(certs, r.unboil())
	}
	return certs, nil
}
