package service

import (
	"fmt"

	"github.com/google/uuid"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/pkg/logger"
)

// CertificateService issues completion certificates, at most one per
// (user, course) pair, and only once the enrollment reached completed status.
type CertificateService struct {
	certificateRepo repository.CertificateRepository
	enrollmentRepo  repository.EnrollmentRepository
	courseRepo      repository.CourseRepository
}

func NewCertificateService(
	certificateRepo repository.CertificateRepository,
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
) *CertificateService {
	return &CertificateService{
		certificateRepo: certificateRepo,
		enrollmentRepo:  enrollmentRepo,
		courseRepo:      courseRepo,
	}
}

// Issue creates the certificate for a completed enrollment.
func (s *CertificateService) Issue(userID, courseID uint) (*models.Certificate, error) {
	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrCourseNotCompleted
		}
		return nil, err
	}
	if enrollment.Status != models.EnrollmentStatusCompleted {
		return nil, ErrCourseNotCompleted
	}

	if _, err := s.certificateRepo.GetByUserAndCourse(userID, courseID); err == nil {
		return nil, ErrAlreadyIssued
	} else if !IsNotFound(err) {
		return nil, err
	}

	certificate := &models.Certificate{
		UserID:            userID,
		CourseID:          courseID,
		CertificateNumber: fmt.Sprintf("CERT-%d-%d-%s", courseID, userID, uuid.NewString()),
	}
	if err := s.certificateRepo.Create(certificate); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrAlreadyIssued
		}
		return nil, err
	}

	logger.Info("Certificate issued", map[string]interface{}{
		"user_id":            userID,
		"course_id":          courseID,
		"certificate_number": certificate.CertificateNumber,
	})

	return certificate, nil
}

// ListForUser returns the user's certificates.
func (s *CertificateService) ListForUser(userID uint) ([]models.Certificate, error) {
	return s.certificateRepo.ListByUser(userID)
}
