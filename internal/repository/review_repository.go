package repository

import (
	"gorm.io/gorm"

	"learnhub-backend/internal/models"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	GetByUserAndCourse(userID, courseID uint) (*models.Review, error)
	ListByCourse(courseID uint) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) GetByUserAndCourse(userID, courseID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&review).Error
	return &review, err
}

func (r *reviewRepository) ListByCourse(courseID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("course_id = ?", courseID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}
