package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
	"github.com/stemsi/mockexam-backend/internal/response"
	"github.com/stemsi/mockexam-backend/internal/service"
)

// AttemptUsecase is the attempt lifecycle. Implemented by service.AttemptService.
type AttemptUsecase interface {
	Start(ctx context.Context, userID int, testID uuid.UUID) (*model.StartAttemptResponse, error)
	SaveDraft(ctx context.Context, userID int, attemptID uuid.UUID, responses []model.Response) error
	GetState(ctx context.Context, userID int, attemptID uuid.UUID) (*model.AttemptState, error)
	Submit(ctx context.Context, userID int, attemptID uuid.UUID, responses []model.Response) (*model.GradedResult, error)
	GetResult(ctx context.Context, userID int, attemptID uuid.UUID) (*model.AttemptDetail, error)
	ListForOwner(ctx context.Context, userID int, opts repository.AttemptListOpts) ([]model.AttemptSummary, error)
}

// CatalogReader serves published tests. Implemented by service.CatalogService.
type CatalogReader interface {
	ListPublishedTests(ctx context.Context) ([]model.Test, error)
	GetTest(ctx context.Context, testID uuid.UUID) (*model.Test, error)
	PaperForTest(ctx context.Context, testID uuid.UUID) (*model.TestPaper, error)
}

// Authenticator logs users in. Implemented by service.AuthService.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
}

// failService maps a service error onto the response envelope.
// Unexpected errors are logged and reported as INTERNAL_ERROR.
func failService(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrAttemptNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrAttemptNotFound)
	case errors.Is(err, service.ErrTestNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrInvalidInput):
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrInvalidPayload, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	default:
		log.Error().
			Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// pathUUID parses a UUID path parameter, writing INVALID_ID on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
