package service

import (
	"math"
	"time"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/pkg/logger"
)

// EnrollmentService owns the enrollment lifecycle and per-course progress
// tracking. Progress percentages are always recomputed from lesson completion
// records, never adjusted incrementally.
type EnrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	progressRepo   repository.ProgressRepository
	courseRepo     repository.CourseRepository
	moduleRepo     repository.CourseModuleRepository
	lessonRepo     repository.LessonRepository
	locks          completionLocks
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	progressRepo repository.ProgressRepository,
	courseRepo repository.CourseRepository,
	moduleRepo repository.CourseModuleRepository,
	lessonRepo repository.LessonRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		progressRepo:   progressRepo,
		courseRepo:     courseRepo,
		moduleRepo:     moduleRepo,
		lessonRepo:     lessonRepo,
	}
}

// Enroll creates an active enrollment for a free course. Paid courses must go
// through the purchase flow instead.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !IsNotFound(err) {
		return nil, err
	}

	if course.PriceCents > 0 {
		return nil, ErrPaymentRequired
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   models.EnrollmentStatusActive,
		Progress: 0,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	logger.Info("User enrolled in course", map[string]interface{}{
		"user_id":   userID,
		"course_id": courseID,
	})

	return enrollment, nil
}

// EnrollFromPurchase creates an active enrollment after a confirmed payment,
// bypassing the price gate. An existing enrollment is returned as is so that
// repeated payment notifications stay harmless.
func (s *EnrollmentService) EnrollFromPurchase(userID, courseID uint) (*models.Enrollment, error) {
	existing, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   models.EnrollmentStatusActive,
		Progress: 0,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		if isDuplicateKeyError(err) {
			return s.enrollmentRepo.GetByUserAndCourse(userID, courseID)
		}
		return nil, err
	}

	return enrollment, nil
}

// ListForUser returns the user's enrollments decorated with course details.
func (s *EnrollmentService) ListForUser(userID uint) ([]models.EnrolledCourse, error) {
	enrollments, err := s.enrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	enrolled := make([]models.EnrolledCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		item := models.EnrolledCourse{Enrollment: enrollment}
		course, err := s.courseRepo.GetByID(enrollment.CourseID)
		if err == nil {
			item.Course = course
		} else if !IsNotFound(err) {
			return nil, err
		}
		enrolled = append(enrolled, item)
	}

	return enrolled, nil
}

// GetForUserAndCourse fetches one enrollment, or gorm.ErrRecordNotFound.
func (s *EnrollmentService) GetForUserAndCourse(userID, courseID uint) (*models.Enrollment, error) {
	return s.enrollmentRepo.GetByUserAndCourse(userID, courseID)
}

// UpdateStatus pauses or resumes an enrollment. Completed enrollments are
// final and cannot be moved back to active or paused.
func (s *EnrollmentService) UpdateStatus(userID, courseID uint, status string) (*models.Enrollment, error) {
	if status != models.EnrollmentStatusActive && status != models.EnrollmentStatusPaused {
		return nil, newValidationError("status must be active or paused")
	}

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	if enrollment.Status == models.EnrollmentStatusCompleted {
		return nil, newValidationError("a completed enrollment cannot be %s", status)
	}

	if enrollment.Status == status {
		return enrollment, nil
	}

	enrollment.Status = status
	if err := s.enrollmentRepo.Update(enrollment); err != nil {
		return nil, err
	}

	return enrollment, nil
}

// RecordLessonAccess loads a lesson for an enrolled user and stamps its
// progress record with the access time, creating the record on first visit.
func (s *EnrollmentService) RecordLessonAccess(userID, lessonID uint) (*models.Lesson, *models.Progress, error) {
	lesson, courseID, err := s.lessonCourse(lessonID)
	if err != nil {
		return nil, nil, err
	}

	if _, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID); err != nil {
		if IsNotFound(err) {
			return nil, nil, ErrNotEnrolled
		}
		return nil, nil, err
	}

	now := time.Now()
	progress, err := s.progressRepo.GetByUserAndLesson(userID, lessonID)
	if err != nil {
		if !IsNotFound(err) {
			return nil, nil, err
		}
		progress = &models.Progress{
			UserID:         userID,
			LessonID:       lessonID,
			LastAccessedAt: now,
		}
		if err := s.progressRepo.Create(progress); err != nil {
			return nil, nil, err
		}
		return lesson, progress, nil
	}

	progress.LastAccessedAt = now
	if err := s.progressRepo.Update(progress); err != nil {
		return nil, nil, err
	}

	return lesson, progress, nil
}

// CompleteLesson marks a lesson completed for the user and recomputes the
// enrollment's progress percentage. Completing an already completed lesson is
// a no-op that keeps the original completion timestamp.
func (s *EnrollmentService) CompleteLesson(userID, lessonID uint) (*models.Progress, *models.Enrollment, error) {
	return s.completeLesson(userID, lessonID, nil)
}

// CompleteQuizLesson behaves like CompleteLesson and additionally stores the
// score of the graded attempt.
func (s *EnrollmentService) CompleteQuizLesson(userID, lessonID uint, score int) (*models.Progress, *models.Enrollment, error) {
	return s.completeLesson(userID, lessonID, &score)
}

func (s *EnrollmentService) completeLesson(userID, lessonID uint, quizScore *int) (*models.Progress, *models.Enrollment, error) {
	_, courseID, err := s.lessonCourse(lessonID)
	if err != nil {
		return nil, nil, err
	}

	mu := s.locks.lock(userID, courseID)
	defer mu.Unlock()

	enrollment, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil, ErrNotEnrolled
		}
		return nil, nil, err
	}

	now := time.Now()
	progress, err := s.progressRepo.GetByUserAndLesson(userID, lessonID)
	if err != nil {
		if !IsNotFound(err) {
			return nil, nil, err
		}
		progress = &models.Progress{
			UserID:         userID,
			LessonID:       lessonID,
			Completed:      true,
			CompletedAt:    &now,
			LastAccessedAt: now,
			QuizScore:      quizScore,
		}
		if err := s.progressRepo.Create(progress); err != nil {
			return nil, nil, err
		}
	} else {
		if !progress.Completed {
			progress.Completed = true
			progress.CompletedAt = &now
		}
		progress.LastAccessedAt = now
		if quizScore != nil {
			progress.QuizScore = quizScore
		}
		if err := s.progressRepo.Update(progress); err != nil {
			return nil, nil, err
		}
	}

	if err := s.recompute(userID, courseID, enrollment); err != nil {
		return nil, nil, err
	}

	return progress, enrollment, nil
}

// recompute recalculates the enrollment's percentage from completed lesson
// counts. Reaching 100 promotes the enrollment to completed exactly once;
// the status and timestamp never revert afterwards.
func (s *EnrollmentService) recompute(userID, courseID uint, enrollment *models.Enrollment) error {
	lessons, err := s.lessonRepo.ListByCourse(courseID)
	if err != nil {
		return err
	}

	percentage := 0
	if len(lessons) > 0 {
		lessonIDs := make([]uint, 0, len(lessons))
		for _, lesson := range lessons {
			lessonIDs = append(lessonIDs, lesson.ID)
		}

		records, err := s.progressRepo.ListByUserAndLessons(userID, lessonIDs)
		if err != nil {
			return err
		}

		completed := 0
		for _, record := range records {
			if record.Completed {
				completed++
			}
		}

		percentage = int(math.Round(float64(completed) / float64(len(lessons)) * 100))
	}

	enrollment.Progress = percentage
	if percentage == 100 && enrollment.Status != models.EnrollmentStatusCompleted {
		now := time.Now()
		enrollment.Status = models.EnrollmentStatusCompleted
		enrollment.CompletedAt = &now
		logger.Info("Course completed", map[string]interface{}{
			"user_id":   userID,
			"course_id": courseID,
		})
	}

	return s.enrollmentRepo.Update(enrollment)
}

// lessonCourse resolves a lesson and the id of the course that owns it.
func (s *EnrollmentService) lessonCourse(lessonID uint) (*models.Lesson, uint, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		return nil, 0, err
	}

	module, err := s.moduleRepo.GetByID(lesson.ModuleID)
	if err != nil {
		return nil, 0, err
	}

	return lesson, module.CourseID, nil
}
