package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/middleware"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
	"github.com/stemsi/mockexam-backend/internal/response"
	"github.com/stemsi/mockexam-backend/internal/validator"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// AttemptHandler handles the candidate's attempt endpoints.
type AttemptHandler struct {
	attempts AttemptUsecase
	log      zerolog.Logger
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attempts AttemptUsecase, log zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		attempts: attempts,
		log:      log.With().Str("component", "attempt_handler").Logger(),
	}
}

// Start godoc
// POST /api/v1/attempts/start
// Creates an IN_PROGRESS attempt for a published test.
func (h *AttemptHandler) Start(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.StartAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	started, err := h.attempts.Start(c.Request.Context(), claims.UserID, req.TestID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, started)
}

// SaveDraft godoc
// PUT /api/v1/attempts/:attempt_id/responses
// Autosaves responses of an in-progress attempt.
func (h *AttemptHandler) SaveDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, ok := pathUUID(c, "attempt_id")
	if !ok {
		return
	}

	var req model.SaveDraftRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.attempts.SaveDraft(c.Request.Context(), claims.UserID, attemptID, req.Responses); err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"saved": len(req.Responses)})
}

// GetState godoc
// GET /api/v1/attempts/:attempt_id/state
// Returns autosaved responses and remaining time so a client can resume.
func (h *AttemptHandler) GetState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, ok := pathUUID(c, "attempt_id")
	if !ok {
		return
	}

	state, err := h.attempts.GetState(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Submit godoc
// POST /api/v1/attempts/submit
// Grades the responses and finalizes the attempt. Only the first submit succeeds.
func (h *AttemptHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attempts.Submit(c.Request.Context(), claims.UserID, req.AttemptID, req.Responses)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetResult godoc
// GET /api/v1/attempts/result/:attempt_id
// Returns the attempt with its test and owner.
func (h *AttemptHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	attemptID, ok := pathUUID(c, "attempt_id")
	if !ok {
		return
	}

	detail, err := h.attempts.GetResult(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, detail)
}

// History godoc
// GET /api/v1/attempts/history?status=SUBMITTED&limit=20&offset=0
// Lists the caller's attempts, newest first.
func (h *AttemptHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	limit, errLimit := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultHistoryLimit)))
	offset, errOffset := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if errLimit != nil || errOffset != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"limit":  "limit and offset must be integers",
			"offset": "limit and offset must be integers",
		})
		return
	}

	opts := repository.AttemptListOpts{Limit: limit, Offset: offset}
	if s := c.Query("status"); s != "" {
		status := model.AttemptStatus(s)
		if status != model.AttemptStatusInProgress && status != model.AttemptStatusSubmitted {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"status": "status must be IN_PROGRESS or SUBMITTED",
			})
			return
		}
		opts.Status = status
	}

	attempts, err := h.attempts.ListForOwner(c.Request.Context(), claims.UserID, opts)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, attempts, &response.Pagination{
		Limit:  min(limit, maxHistoryLimit),
		Offset: offset,
		Count:  len(attempts),
	})
}
