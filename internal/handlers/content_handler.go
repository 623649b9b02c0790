package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learnhub-backend/internal/service"
)

type ContentHandler struct {
	contentService *service.ContentService
}

func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) ListTestimonials(c *gin.Context) {
	testimonials, err := h.contentService.ListTestimonials()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testimonials": testimonials})
}

func (h *ContentHandler) ListFeatures(c *gin.Context) {
	features, err := h.contentService.ListFeatures()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"features": features})
}
