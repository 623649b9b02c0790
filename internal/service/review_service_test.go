package service

import (
	"errors"
	"testing"

	"learnhub-backend/internal/models"
)

type reviewFixture struct {
	*enrollmentFixture
	reviews *fakeReviewRepo
	users   *fakeUserRepo
	service *ReviewService
}

func newReviewFixture() *reviewFixture {
	base := newEnrollmentFixture()
	reviews := newFakeReviewRepo()
	users := newFakeUserRepo()
	return &reviewFixture{
		enrollmentFixture: base,
		reviews:           reviews,
		users:             users,
		service:           NewReviewService(reviews, base.enrollments, base.courses, users),
	}
}

func (f *reviewFixture) seedUser(t *testing.T) uint {
	t.Helper()
	user := &models.User{Username: "maria", Email: "maria@example.com", Password: "x", AvatarURL: "https://example.com/a.png"}
	if err := f.users.Create(user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user.ID
}

func TestCreateReviewRequiresEnrollment(t *testing.T) {
	f := newReviewFixture()
	courseID, _ := f.seedCourse(t, 0, 1)
	userID := f.seedUser(t)

	_, err := f.service.Create(userID, courseID, &models.CreateReviewRequest{Rating: 5, Comment: "Excelente curso"})
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestCreateReviewOncePerCourse(t *testing.T) {
	f := newReviewFixture()
	courseID, _ := f.seedCourse(t, 0, 1)
	userID := f.seedUser(t)

	if _, err := f.enrollmentFixture.service.Enroll(userID, courseID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}

	review, err := f.service.Create(userID, courseID, &models.CreateReviewRequest{Rating: 4, Comment: "Muito bom"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if review.Rating != 4 {
		t.Errorf("expected rating 4, got %d", review.Rating)
	}

	_, err = f.service.Create(userID, courseID, &models.CreateReviewRequest{Rating: 5, Comment: "Mudei de ideia"})
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestCreateReviewSanitizesComment(t *testing.T) {
	f := newReviewFixture()
	courseID, _ := f.seedCourse(t, 0, 1)
	userID := f.seedUser(t)

	if _, err := f.enrollmentFixture.service.Enroll(userID, courseID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}

	review, err := f.service.Create(userID, courseID, &models.CreateReviewRequest{
		Rating:  5,
		Comment: `<script>alert("x")</script>Recomendo`,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if review.Comment != "Recomendo" {
		t.Errorf("expected sanitized comment, got %q", review.Comment)
	}
}

func TestCreateReviewRejectsRatingOutOfRange(t *testing.T) {
	f := newReviewFixture()
	courseID, _ := f.seedCourse(t, 0, 1)
	userID := f.seedUser(t)

	if _, err := f.service.Create(userID, courseID, &models.CreateReviewRequest{Rating: 6, Comment: "ok"}); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.service.Create(userID, courseID, &models.CreateReviewRequest{Rating: 0, Comment: "ok"}); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListByCourseDecoratesReviewer(t *testing.T) {
	f := newReviewFixture()
	courseID, _ := f.seedCourse(t, 0, 1)
	userID := f.seedUser(t)

	if _, err := f.enrollmentFixture.service.Enroll(userID, courseID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}
	if _, err := f.service.Create(userID, courseID, &models.CreateReviewRequest{Rating: 5, Comment: "Excelente"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	reviews, err := f.service.ListByCourse(courseID)
	if err != nil {
		t.Fatalf("ListByCourse returned error: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
	if reviews[0].Username != "maria" {
		t.Errorf("expected reviewer username, got %q", reviews[0].Username)
	}
}
