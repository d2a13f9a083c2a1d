package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/response"
)

// TestHandler serves published tests and their candidate papers.
type TestHandler struct {
	catalog CatalogReader
	log     zerolog.Logger
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(catalog CatalogReader, log zerolog.Logger) *TestHandler {
	return &TestHandler{
		catalog: catalog,
		log:     log.With().Str("component", "test_handler").Logger(),
	}
}

// ListTests godoc
// GET /api/v1/tests
func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.catalog.ListPublishedTests(c.Request.Context())
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// GetTest godoc
// GET /api/v1/tests/:test_id
func (h *TestHandler) GetTest(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	test, err := h.catalog.GetTest(c.Request.Context(), testID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, test)
}

// GetQuestions godoc
// GET /api/v1/tests/:test_id/questions
// Returns the paper without correct answers.
func (h *TestHandler) GetQuestions(c *gin.Context) {
	testID, ok := pathUUID(c, "test_id")
	if !ok {
		return
	}

	paper, err := h.catalog.PaperForTest(c.Request.Context(), testID)
	if err != nil {
		failService(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, paper)
}
