package service

import (
	"math"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/repository"
)

// QuizService serves quiz questions with the answer key stripped and grades
// submissions against the stored key.
type QuizService struct {
	quizRepo          repository.QuizQuestionRepository
	lessonRepo        repository.LessonRepository
	enrollmentService *EnrollmentService
}

func NewQuizService(
	quizRepo repository.QuizQuestionRepository,
	lessonRepo repository.LessonRepository,
	enrollmentService *EnrollmentService,
) *QuizService {
	return &QuizService{
		quizRepo:          quizRepo,
		lessonRepo:        lessonRepo,
		enrollmentService: enrollmentService,
	}
}

// Questions returns the lesson's quiz questions without correct options or
// explanations.
func (s *QuizService) Questions(lessonID uint) ([]models.QuizQuestionView, error) {
	if _, err := s.quizLesson(lessonID); err != nil {
		return nil, err
	}

	questions, err := s.quizRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	views := make([]models.QuizQuestionView, 0, len(questions))
	for _, question := range questions {
		views = append(views, models.QuizQuestionView{
			ID:       question.ID,
			LessonID: question.LessonID,
			Question: question.Question,
			Options:  question.Options,
			Position: question.Position,
		})
	}

	return views, nil
}

// Submit grades a quiz attempt for an enrolled user, records the lesson as
// completed with the score, and returns per-question results including the
// answer key. Unanswered or unknown questions count as wrong.
func (s *QuizService) Submit(userID, lessonID uint, req *models.SubmitQuizRequest) (*models.QuizSubmissionResult, error) {
	if _, err := s.quizLesson(lessonID); err != nil {
		return nil, err
	}

	questions, err := s.quizRepo.ListByLesson(lessonID)
	if err != nil {
		return nil, err
	}

	answers := make(map[uint]int, len(req.Answers))
	for _, answer := range req.Answers {
		answers[answer.QuestionID] = answer.SelectedOption
	}

	correct := 0
	results := make([]models.QuizAnswerResult, 0, len(questions))
	for _, question := range questions {
		selected, answered := answers[question.ID]
		isCorrect := answered && selected == question.CorrectOption
		if isCorrect {
			correct++
		}
		results = append(results, models.QuizAnswerResult{
			QuestionID:    question.ID,
			Correct:       isCorrect,
			CorrectOption: question.CorrectOption,
			Explanation:   question.Explanation,
		})
	}

	// A quiz without questions grades to zero rather than erroring.
	score := 0
	if len(questions) > 0 {
		score = int(math.Round(float64(correct) / float64(len(questions)) * 100))
	}

	progress, _, err := s.enrollmentService.CompleteQuizLesson(userID, lessonID, score)
	if err != nil {
		return nil, err
	}

	return &models.QuizSubmissionResult{
		Score:    score,
		Results:  results,
		Progress: progress,
	}, nil
}

func (s *QuizService) quizLesson(lessonID uint) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.GetByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Type != models.LessonTypeQuiz {
		return nil, newValidationError("lesson is not a quiz")
	}
	return lesson, nil
}
