package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/service"
)

type EnrollmentHandler struct {
	enrollmentService *service.EnrollmentService
}

func NewEnrollmentHandler(enrollmentService *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// Enroll enrolls the user in a free course.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.Enroll(userID, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"enrollment": enrollment})
}

// ListMine returns the user's enrollments with course details.
func (h *EnrollmentHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentService.ListForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}

// GetMine returns the user's enrollment for one course.
func (h *EnrollmentHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.enrollmentService.GetForUserAndCourse(userID, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

// UpdateStatus pauses or resumes the user's enrollment.
func (h *EnrollmentHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateEnrollmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	enrollment, err := h.enrollmentService.UpdateStatus(userID, courseID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}
