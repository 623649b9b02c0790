package repository

import (
	"gorm.io/gorm"

	"learnhub-backend/internal/models"
)

type CertificateRepository interface {
	Create(certificate *models.Certificate) error
	GetByUserAndCourse(userID, courseID uint) (*models.Certificate, error)
	ListByUser(userID uint) ([]models.Certificate, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(certificate *models.Certificate) error {
	return r.db.Create(certificate).Error
}

func (r *certificateRepository) GetByUserAndCourse(userID, courseID uint) (*models.Certificate, error) {
	var certificate models.Certificate
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&certificate).Error
	return &certificate, err
}

func (r *certificateRepository) ListByUser(userID uint) ([]models.Certificate, error) {
	var certificates []models.Certificate
	err := r.db.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certificates).Error
	return certificates, err
}
