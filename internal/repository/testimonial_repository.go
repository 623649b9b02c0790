package repository

import (
	"gorm.io/gorm"

	"learnhub-backend/internal/models"
)

type TestimonialRepository interface {
	Create(testimonial *models.Testimonial) error
	List() ([]models.Testimonial, error)
	Count() (int64, error)
}

type FeatureRepository interface {
	Create(feature *models.Feature) error
	List() ([]models.Feature, error)
	Count() (int64, error)
}

type testimonialRepository struct {
	db *gorm.DB
}

type featureRepository struct {
	db *gorm.DB
}

func NewTestimonialRepository(db *gorm.DB) TestimonialRepository {
	return &testimonialRepository{db: db}
}

func NewFeatureRepository(db *gorm.DB) FeatureRepository {
	return &featureRepository{db: db}
}

func (r *testimonialRepository) Create(testimonial *models.Testimonial) error {
	return r.db.Create(testimonial).Error
}

func (r *testimonialRepository) List() ([]models.Testimonial, error) {
	var testimonials []models.Testimonial
	err := r.db.Order("id ASC").Find(&testimonials).Error
	return testimonials, err
}

func (r *testimonialRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Testimonial{}).Count(&count).Error
	return count, err
}

func (r *featureRepository) Create(feature *models.Feature) error {
	return r.db.Create(feature).Error
}

func (r *featureRepository) List() ([]models.Feature, error) {
	var features []models.Feature
	err := r.db.Order("id ASC").Find(&features).Error
	return features, err
}

func (r *featureRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Feature{}).Count(&count).Error
	return count, err
}
