package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub-backend/internal/service"
)

type CertificateHandler struct {
	certificateService *service.CertificateService
}

func NewCertificateHandler(certificateService *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

// Issue creates the certificate for a course the user completed.
func (h *CertificateHandler) Issue(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	certificate, err := h.certificateService.Issue(userID, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"certificate": certificate})
}

// ListMine returns the user's certificates.
func (h *CertificateHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	certificates, err := h.certificateService.ListForUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": certificates})
}
