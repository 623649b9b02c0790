package service

import (
	"errors"
	"testing"

	"learnhub-backend/internal/models"
)

type quizFixture struct {
	*enrollmentFixture
	quizzes *fakeQuizRepo
	service *QuizService
}

func newQuizFixture() *quizFixture {
	base := newEnrollmentFixture()
	quizzes := newFakeQuizRepo()
	return &quizFixture{
		enrollmentFixture: base,
		quizzes:           quizzes,
		service:           NewQuizService(quizzes, base.lessons, base.service),
	}
}

// seedQuiz adds a quiz lesson with three questions whose correct options are
// 1, 2 and 3, returning the lesson id and the question ids in order.
func (f *quizFixture) seedQuiz(t *testing.T, courseID uint) (uint, []uint) {
	t.Helper()

	modules, err := f.modules.ListByCourse(courseID)
	if err != nil || len(modules) == 0 {
		t.Fatalf("course %d has no modules", courseID)
	}

	lesson := &models.Lesson{ModuleID: modules[0].ID, Title: "Quiz", Type: models.LessonTypeQuiz, Position: 99}
	if err := f.lessons.Create(lesson); err != nil {
		t.Fatalf("seed quiz lesson: %v", err)
	}

	questionIDs := make([]uint, 0, 3)
	for i, correct := range []int{1, 2, 3} {
		question := &models.QuizQuestion{
			LessonID:      lesson.ID,
			Question:      "Question",
			Options:       models.StringArray{"a", "b", "c", "d"},
			CorrectOption: correct,
			Explanation:   "Because",
			Position:      i + 1,
		}
		if err := f.quizzes.Create(question); err != nil {
			t.Fatalf("seed question: %v", err)
		}
		questionIDs = append(questionIDs, question.ID)
	}

	return lesson.ID, questionIDs
}

func TestQuestionsStripAnswerKey(t *testing.T) {
	f := newQuizFixture()
	courseID, _ := f.seedCourse(t, 0, 0)
	lessonID, _ := f.seedQuiz(t, courseID)

	views, err := f.service.Questions(lessonID)
	if err != nil {
		t.Fatalf("Questions returned error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(views))
	}
	for _, view := range views {
		if len(view.Options) != 4 {
			t.Errorf("question %d: expected 4 options, got %d", view.ID, len(view.Options))
		}
	}
}

func TestQuestionsRejectNonQuizLesson(t *testing.T) {
	f := newQuizFixture()
	_, lessonIDs := f.seedCourse(t, 0, 1)

	if _, err := f.service.Questions(lessonIDs[0]); !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitGradesAndRecordsProgress(t *testing.T) {
	f := newQuizFixture()
	courseID, _ := f.seedCourse(t, 0, 0)
	lessonID, questionIDs := f.seedQuiz(t, courseID)

	if _, err := f.enrollmentFixture.service.Enroll(1, courseID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}

	result, err := f.service.Submit(1, lessonID, &models.SubmitQuizRequest{
		Answers: []models.QuizAnswer{
			{QuestionID: questionIDs[0], SelectedOption: 1},
			{QuestionID: questionIDs[1], SelectedOption: 0},
			{QuestionID: questionIDs[2], SelectedOption: 3},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if result.Score != 33 {
		t.Errorf("expected score 33 for 1 of 3 correct, got %d", result.Score)
	}
	if len(result.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result.Results))
	}
	if !result.Results[0].Correct || result.Results[1].Correct || result.Results[2].Correct {
		t.Errorf("unexpected correctness pattern: %+v", result.Results)
	}
	if result.Results[1].CorrectOption != 2 {
		t.Errorf("expected results to reveal the answer key, got %d", result.Results[1].CorrectOption)
	}

	if result.Progress == nil || !result.Progress.Completed {
		t.Fatal("expected quiz submission to complete the lesson")
	}
	if result.Progress.QuizScore == nil || *result.Progress.QuizScore != 33 {
		t.Error("expected quiz score to be stored on the progress record")
	}

	// The quiz is the course's only lesson, so the enrollment completes.
	enrollment, err := f.enrollmentFixture.service.GetForUserAndCourse(1, courseID)
	if err != nil {
		t.Fatalf("GetForUserAndCourse returned error: %v", err)
	}
	if enrollment.Status != models.EnrollmentStatusCompleted {
		t.Errorf("expected enrollment completed, got %q", enrollment.Status)
	}
}

func TestSubmitUnansweredQuestionsCountAsWrong(t *testing.T) {
	f := newQuizFixture()
	courseID, _ := f.seedCourse(t, 0, 0)
	lessonID, questionIDs := f.seedQuiz(t, courseID)

	if _, err := f.enrollmentFixture.service.Enroll(1, courseID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}

	result, err := f.service.Submit(1, lessonID, &models.SubmitQuizRequest{
		Answers: []models.QuizAnswer{
			{QuestionID: questionIDs[0], SelectedOption: 1},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Score != 33 {
		t.Errorf("expected score 33, got %d", result.Score)
	}
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	f := newQuizFixture()
	courseID, _ := f.seedCourse(t, 0, 0)
	lessonID, questionIDs := f.seedQuiz(t, courseID)

	_, err := f.service.Submit(1, lessonID, &models.SubmitQuizRequest{
		Answers: []models.QuizAnswer{{QuestionID: questionIDs[0], SelectedOption: 1}},
	})
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
}

func TestSubmitEmptyQuizScoresZero(t *testing.T) {
	f := newQuizFixture()
	courseID, _ := f.seedCourse(t, 0, 0)

	modules, _ := f.modules.ListByCourse(courseID)
	lesson := &models.Lesson{ModuleID: modules[0].ID, Title: "Empty Quiz", Type: models.LessonTypeQuiz, Position: 1}
	if err := f.lessons.Create(lesson); err != nil {
		t.Fatalf("seed lesson: %v", err)
	}

	if _, err := f.enrollmentFixture.service.Enroll(1, courseID); err != nil {
		t.Fatalf("Enroll returned error: %v", err)
	}

	result, err := f.service.Submit(1, lesson.ID, &models.SubmitQuizRequest{Answers: []models.QuizAnswer{}})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if result.Score != 0 {
		t.Errorf("expected score 0, got %d", result.Score)
	}
	if len(result.Results) != 0 {
		t.Errorf("expected no per-question results, got %d", len(result.Results))
	}
}
