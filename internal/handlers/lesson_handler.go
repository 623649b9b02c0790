package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/service"
)

type LessonHandler struct {
	enrollmentService *service.EnrollmentService
	quizService       *service.QuizService
}

func NewLessonHandler(enrollmentService *service.EnrollmentService, quizService *service.QuizService) *LessonHandler {
	return &LessonHandler{
		enrollmentService: enrollmentService,
		quizService:       quizService,
	}
}

// GetLesson serves lesson content to an enrolled user and records the access.
func (h *LessonHandler) GetLesson(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lessonID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	lesson, progress, err := h.enrollmentService.RecordLessonAccess(userID, lessonID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lesson": lesson, "progress": progress})
}

// CompleteLesson marks the lesson completed and returns the updated
// enrollment progress.
func (h *LessonHandler) CompleteLesson(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lessonID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	progress, enrollment, err := h.enrollmentService.CompleteLesson(userID, lessonID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": progress, "enrollment": enrollment})
}

// GetQuiz serves a quiz lesson's questions without the answer key.
func (h *LessonHandler) GetQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lessonID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	// Enrollment gate, same as reading any other lesson.
	if _, _, err := h.enrollmentService.RecordLessonAccess(userID, lessonID); err != nil {
		respondServiceError(c, err)
		return
	}

	questions, err := h.quizService.Questions(lessonID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// SubmitQuiz grades a quiz attempt.
func (h *LessonHandler) SubmitQuiz(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lessonID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req models.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizService.Submit(userID, lessonID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
