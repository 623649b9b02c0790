package repository

import (
	"gorm.io/gorm"

	"learnhub-backend/internal/models"
)

type CourseRepository interface {
	Create(course *models.Course) error
	GetByID(id uint) (*models.Course, error)
	GetBySlug(slug string) (*models.Course, error)
	List() ([]models.Course, error)
	Count() (int64, error)
}

type CourseModuleRepository interface {
	Create(module *models.CourseModule) error
	GetByID(id uint) (*models.CourseModule, error)
	ListByCourse(courseID uint) ([]models.CourseModule, error)
}

type LessonRepository interface {
	Create(lesson *models.Lesson) error
	GetByID(id uint) (*models.Lesson, error)
	ListByModule(moduleID uint) ([]models.Lesson, error)
	// ListByCourse returns every lesson of every module of the course,
	// joined through course_modules so the caller never scans unrelated rows.
	ListByCourse(courseID uint) ([]models.Lesson, error)
}

type QuizQuestionRepository interface {
	Create(question *models.QuizQuestion) error
	ListByLesson(lessonID uint) ([]models.QuizQuestion, error)
}

type courseRepository struct {
	db *gorm.DB
}

type courseModuleRepository struct {
	db *gorm.DB
}

type lessonRepository struct {
	db *gorm.DB
}

type quizQuestionRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func NewCourseModuleRepository(db *gorm.DB) CourseModuleRepository {
	return &courseModuleRepository{db: db}
}

func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func NewQuizQuestionRepository(db *gorm.DB) QuizQuestionRepository {
	return &quizQuestionRepository{db: db}
}

func (r *courseRepository) Create(course *models.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) GetByID(id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.First(&course, id).Error
	return &course, err
}

func (r *courseRepository) GetBySlug(slug string) (*models.Course, error) {
	var course models.Course
	err := r.db.Where("slug = ?", slug).First(&course).Error
	return &course, err
}

func (r *courseRepository) List() ([]models.Course, error) {
	var courses []models.Course
	err := r.db.Order("created_at ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Course{}).Count(&count).Error
	return count, err
}

func (r *courseModuleRepository) Create(module *models.CourseModule) error {
	return r.db.Create(module).Error
}

func (r *courseModuleRepository) GetByID(id uint) (*models.CourseModule, error) {
	var module models.CourseModule
	err := r.db.First(&module, id).Error
	return &module, err
}

func (r *courseModuleRepository) ListByCourse(courseID uint) ([]models.CourseModule, error) {
	var modules []models.CourseModule
	err := r.db.Where("course_id = ?", courseID).Order("position ASC").Find(&modules).Error
	return modules, err
}

func (r *lessonRepository) Create(lesson *models.Lesson) error {
	return r.db.Create(lesson).Error
}

func (r *lessonRepository) GetByID(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := r.db.First(&lesson, id).Error
	return &lesson, err
}

func (r *lessonRepository) ListByModule(moduleID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.Where("module_id = ?", moduleID).Order("position ASC").Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepository) ListByCourse(courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := r.db.
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ? AND course_modules.deleted_at IS NULL", courseID).
		Order("course_modules.position ASC, lessons.position ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *quizQuestionRepository) Create(question *models.QuizQuestion) error {
	return r.db.Create(question).Error
}

func (r *quizQuestionRepository) ListByLesson(lessonID uint) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := r.db.Where("lesson_id = ?", lessonID).Order("position ASC").Find(&questions).Error
	return questions, err
}
