package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
)

type certificateRepository struct {
	db *table[certificate.Certificate]
}

var _ certificate.Repository = (*certificateRepository)(nil) // interface compliance check

func NewCertificateRepository(db *DB) certificate.Repository {
	return &certificateRepository{db: db.certificates}
}

func (repo *certificateRepository) find(userID, courseID string, typ certificate.Type) (certificate.Certificate, bool) {
	return repo.db.find(func(c certificate.Certificate) bool {
		return c.UserID == userID && c.CourseID == courseID && c.Type == typ
	})
}

func (repo *certificateRepository) CreateCertificate(_ context.Context, cert certificate.Certificate) (certificate.Certificate, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	if _, ok := repo.find(cert.UserID, cert.CourseID, cert.Type); ok {
		return certificate.Certificate{}, certificate.ErrAlreadyIssued
	}
	if _, ok := repo.db.find(func(c certificate.Certificate) bool { return c.CertificateID == cert.CertificateID }); ok {
		return certificate.Certificate{}, core.NewConflictError("certificate id already in use")
	}
	cert.ID = uuid.New().String()
	repo.db.insert(cert.ID, cert)
	return cert, nil
}

func (repo *certificateRepository) GetByCertificateID(_ context.Context, certificateID string) (certificate.Certificate, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cert, ok := repo.db.find(func(c certificate.Certificate) bool { return c.CertificateID == certificateID }); ok {
		return cert, nil
	}
	return certificate.Certificate{}, certificate.ErrNotFound
}

func (repo *certificateRepository) FindForUserCourse(_ context.Context, userID, courseID string, typ certificate.Type) (certificate.Certificate, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if cert, ok := repo.find(userID, courseID, typ); ok {
		return cert, nil
	}
	return certificate.Certificate{}, certificate.ErrNotFound
}

func (repo *certificateRepository) QueryForUser(_ context.Context, userID string) ([]certificate.Certificate, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return reversed(repo.db.filter(func(c certificate.Certificate) bool { return c.UserID == userID })), nil
}
