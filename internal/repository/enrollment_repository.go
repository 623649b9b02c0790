package repository

import (
	"gorm.io/gorm"

	"learnhub-backend/internal/models"
)

type EnrollmentRepository interface {
	Create(enrollment *models.Enrollment) error
	GetByID(id uint) (*models.Enrollment, error)
	GetByUserAndCourse(userID, courseID uint) (*models.Enrollment, error)
	ListByUser(userID uint) ([]models.Enrollment, error)
	Update(enrollment *models.Enrollment) error
}

type ProgressRepository interface {
	Create(progress *models.Progress) error
	GetByUserAndLesson(userID, lessonID uint) (*models.Progress, error)
	// ListByUserAndLessons restricts the scan to the lessons of one course,
	// keeping recomputation course-scoped.
	ListByUserAndLessons(userID uint, lessonIDs []uint) ([]models.Progress, error)
	Update(progress *models.Progress) error
}

type enrollmentRepository struct {
	db *gorm.DB
}

type progressRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *models.Enrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *enrollmentRepository) GetByID(id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.First(&enrollment, id).Error
	return &enrollment, err
}

func (r *enrollmentRepository) GetByUserAndCourse(userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	return &enrollment, err
}

func (r *enrollmentRepository) ListByUser(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.Where("user_id = ?", userID).Order("enrolled_at DESC").Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepository) Update(enrollment *models.Enrollment) error {
	return r.db.Save(enrollment).Error
}

func (r *progressRepository) Create(progress *models.Progress) error {
	return r.db.Create(progress).Error
}

func (r *progressRepository) GetByUserAndLesson(userID, lessonID uint) (*models.Progress, error) {
	var progress models.Progress
	err := r.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	return &progress, err
}

func (r *progressRepository) ListByUserAndLessons(userID uint, lessonIDs []uint) ([]models.Progress, error) {
	if len(lessonIDs) == 0 {
		return []models.Progress{}, nil
	}
	var records []models.Progress
	err := r.db.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).Find(&records).Error
	return records, err
}

func (r *progressRepository) Update(progress *models.Progress) error {
	return r.db.Save(progress).Error
}
