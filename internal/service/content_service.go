package service

import (
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
)

// ContentService serves the marketing content shown on the landing page.
type ContentService struct {
	testimonialRepo repository.TestimonialRepository
	featureRepo     repository.FeatureRepository
}

func NewContentService(
	testimonialRepo repository.TestimonialRepository,
	featureRepo repository.FeatureRepository,
) *ContentService {
	return &ContentService{
		testimonialRepo: testimonialRepo,
		featureRepo:     featureRepo,
	}
}

func (s *ContentService) ListTestimonials() ([]models.Testimonial, error) {
	return s.testimonialRepo.List()
}

func (s *ContentService) ListFeatures() ([]models.Feature, error) {
	return s.featureRepo.List()
}
