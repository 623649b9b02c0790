package service

import (
	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
	"learnhub-backend/pkg/validator"
)

// ReviewService accepts course reviews from enrolled users, one per
// (user, course) pair.
type ReviewService struct {
	reviewRepo     repository.ReviewRepository
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
	userRepo       repository.UserRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
) *ReviewService {
	return &ReviewService{
		reviewRepo:     reviewRepo,
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
	}
}

// Create stores a review for a course the user is enrolled in.
func (s *ReviewService) Create(userID, courseID uint, req *models.CreateReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, newValidationError("rating must be between 1 and 5")
	}

	if _, err := s.courseRepo.GetByID(courseID); err != nil {
		return nil, err
	}

	if _, err := s.enrollmentRepo.GetByUserAndCourse(userID, courseID); err != nil {
		if IsNotFound(err) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	if _, err := s.reviewRepo.GetByUserAndCourse(userID, courseID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !IsNotFound(err) {
		return nil, err
	}

	review := &models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   req.Rating,
		Comment:  validator.SanitizeString(req.Comment),
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	return review, nil
}

// ListByCourse returns a course's reviews decorated with reviewer details.
func (s *ReviewService) ListByCourse(courseID uint) ([]models.ReviewWithUser, error) {
	if _, err := s.courseRepo.GetByID(courseID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByCourse(courseID)
	if err != nil {
		return nil, err
	}

	decorated := make([]models.ReviewWithUser, 0, len(reviews))
	for _, review := range reviews {
		item := models.ReviewWithUser{Review: review}
		user, err := s.userRepo.GetByID(review.UserID)
		if err == nil {
			item.Username = user.Username
			item.AvatarURL = user.AvatarURL
		} else if !IsNotFound(err) {
			return nil, err
		}
		decorated = append(decorated, item)
	}

	return decorated, nil
}
