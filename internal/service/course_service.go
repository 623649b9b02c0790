package service

import (
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/pkg/cache"
	"learnhub-backend/pkg/logger"
	"learnhub-backend/pkg/utils"
	"learnhub-backend/pkg/validator"
)

// CourseService serves the public catalog and lets admins build out course
// structure. Catalog reads go through the cache; every admin write
// invalidates it.
type CourseService struct {
	courseRepo repository.CourseRepository
	moduleRepo repository.CourseModuleRepository
	lessonRepo repository.LessonRepository
	quizRepo   repository.QuizQuestionRepository
	cache      *cache.Cache
}

func NewCourseService(
	courseRepo repository.CourseRepository,
	moduleRepo repository.CourseModuleRepository,
	lessonRepo repository.LessonRepository,
	quizRepo repository.QuizQuestionRepository,
	cacheClient *cache.Cache,
) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		moduleRepo: moduleRepo,
		lessonRepo: lessonRepo,
		quizRepo:   quizRepo,
		cache:      cacheClient,
	}
}

// ListCourses returns the full catalog, cached for the hot landing page read.
func (s *CourseService) ListCourses() ([]models.Course, error) {
	var cached []models.Course
	if err := s.cache.GetCachedCatalog(&cached); err == nil {
		return cached, nil
	}

	courses, err := s.courseRepo.List()
	if err != nil {
		return nil, err
	}

	if err := s.cache.CacheCatalog(courses); err != nil {
		logger.Warn("Failed to cache course catalog", map[string]interface{}{"error": err.Error()})
	}

	return courses, nil
}

// GetCourseBySlug returns one course with its modules preloaded.
func (s *CourseService) GetCourseBySlug(slug string) (*models.Course, error) {
	var cached models.Course
	if err := s.cache.GetCachedCourse(slug, &cached); err == nil {
		return &cached, nil
	}

	course, err := s.courseRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	modules, err := s.moduleRepo.ListByCourse(course.ID)
	if err != nil {
		return nil, err
	}
	course.Modules = modules

	if err := s.cache.CacheCourse(slug, course); err != nil {
		logger.Warn("Failed to cache course", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
	}

	return course, nil
}

// GetCourseByID returns one course without structure.
func (s *CourseService) GetCourseByID(id uint) (*models.Course, error) {
	return s.courseRepo.GetByID(id)
}

// ListModules returns a course's modules ordered by position.
func (s *CourseService) ListModules(courseID uint) ([]models.CourseModule, error) {
	if _, err := s.courseRepo.GetByID(courseID); err != nil {
		return nil, err
	}
	return s.moduleRepo.ListByCourse(courseID)
}

// ListLessons returns a module's lessons ordered by position. Lesson content
// stays out of this listing; it is only served through the access endpoint.
func (s *CourseService) ListLessons(moduleID uint) ([]models.Lesson, error) {
	if _, err := s.moduleRepo.GetByID(moduleID); err != nil {
		return nil, err
	}

	lessons, err := s.lessonRepo.ListByModule(moduleID)
	if err != nil {
		return nil, err
	}

	for i := range lessons {
		lessons[i].Content = ""
		lessons[i].VideoURL = ""
	}

	return lessons, nil
}

// CreateCourse adds a catalog course. The slug is derived from the title
// unless supplied explicitly.
func (s *CourseService) CreateCourse(req *models.CreateCourseRequest) (*models.Course, error) {
	slug := validator.TrimSpaces(req.Slug)
	if slug == "" {
		slug = utils.GenerateSlug(req.Title)
	}
	if slug == "" {
		return nil, newValidationError("could not derive a slug from the title")
	}

	if _, err := s.courseRepo.GetBySlug(slug); err == nil {
		return nil, newValidationError("a course with slug %q already exists", slug)
	} else if !IsNotFound(err) {
		return nil, err
	}

	course := &models.Course{
		Title:         validator.SanitizeString(req.Title),
		Slug:          slug,
		Description:   validator.SanitizeString(req.Description),
		PriceCents:    req.PriceCents,
		ImageURL:      req.ImageURL,
		DurationHours: req.DurationHours,
		Level:         req.Level,
		IsPopular:     req.IsPopular,
	}
	if err := s.courseRepo.Create(course); err != nil {
		if isDuplicateKeyError(err) {
			return nil, newValidationError("a course with slug %q already exists", slug)
		}
		return nil, err
	}

	s.invalidateCatalog()

	logger.Info("Course created", map[string]interface{}{
		"course_id": course.ID,
		"slug":      course.Slug,
	})

	return course, nil
}

// CreateModule adds a module to a course.
func (s *CourseService) CreateModule(courseID uint, req *models.CreateModuleRequest) (*models.CourseModule, error) {
	if _, err := s.courseRepo.GetByID(courseID); err != nil {
		return nil, err
	}

	module := &models.CourseModule{
		CourseID:    courseID,
		Title:       validator.SanitizeString(req.Title),
		Description: validator.SanitizeString(req.Description),
		Position:    req.Position,
	}
	if err := s.moduleRepo.Create(module); err != nil {
		if isDuplicateKeyError(err) {
			return nil, newValidationError("position %d is already taken in this course", req.Position)
		}
		return nil, err
	}

	s.invalidateCatalog()

	return module, nil
}

// CreateLesson adds a lesson to a module, enforcing type specific fields.
func (s *CourseService) CreateLesson(moduleID uint, req *models.CreateLessonRequest) (*models.Lesson, error) {
	if _, err := s.moduleRepo.GetByID(moduleID); err != nil {
		return nil, err
	}

	switch req.Type {
	case models.LessonTypeVideo:
		if validator.TrimSpaces(req.VideoURL) == "" {
			return nil, newValidationError("video lessons require a video_url")
		}
	case models.LessonTypeText:
		if validator.TrimSpaces(req.Content) == "" {
			return nil, newValidationError("text lessons require content")
		}
	case models.LessonTypeQuiz:
		// Questions are attached separately.
	default:
		return nil, newValidationError("unknown lesson type %q", req.Type)
	}

	lesson := &models.Lesson{
		ModuleID:        moduleID,
		Title:           validator.SanitizeString(req.Title),
		Description:     validator.SanitizeString(req.Description),
		Type:            req.Type,
		Content:         req.Content,
		VideoURL:        req.VideoURL,
		DurationSeconds: req.DurationSeconds,
		Position:        req.Position,
	}
	if err := s.lessonRepo.Create(lesson); err != nil {
		if isDuplicateKeyError(err) {
			return nil, newValidationError("position %d is already taken in this module", req.Position)
		}
		return nil, err
	}

	s.invalidateCatalog()

	return lesson, nil
}

// CreateQuizQuestion attaches a question to a quiz lesson.
func (s *CourseService) CreateQuizQuestion(lessonID uint, req *models.CreateQuizQuestionRequest) (*models.QuizQuestion, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Type != models.LessonTypeQuiz {
		return nil, newValidationError("questions can only be added to quiz lessons")
	}

	if req.CorrectOption < 0 || req.CorrectOption >= len(req.Options) {
		return nil, newValidationError("correct_option must index into options")
	}

	question := &models.QuizQuestion{
		LessonID:      lessonID,
		Question:      validator.SanitizeString(req.Question),
		Options:       models.StringArray(req.Options),
		CorrectOption: req.CorrectOption,
		Explanation:   validator.SanitizeString(req.Explanation),
		Position:      req.Position,
	}
	if err := s.quizRepo.Create(question); err != nil {
		return nil, err
	}

	return question, nil
}

func (s *CourseService) invalidateCatalog() {
	if err := s.cache.InvalidateCatalog(); err != nil {
		logger.Warn("Failed to invalidate course cache", map[string]interface{}{"error": err.Error()})
	}
}
