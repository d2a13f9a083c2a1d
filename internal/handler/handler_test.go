package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mockexam-backend/internal/handler"
	"github.com/stemsi/mockexam-backend/internal/middleware"
	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/repository"
	"github.com/stemsi/mockexam-backend/internal/response"
	"github.com/stemsi/mockexam-backend/internal/service"
	"github.com/stemsi/mockexam-backend/internal/testutil/mocks"
	"github.com/stemsi/mockexam-backend/internal/validator"
)

const userID = 7

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

func asUser(c *gin.Context) {
	c.Set(middleware.ContextKeyClaims, &service.Claims{UserID: userID})
	c.Next()
}

func attemptRouter(uc handler.AttemptUsecase) *gin.Engine {
	h := handler.NewAttemptHandler(uc, zerolog.Nop())
	r := gin.New()
	g := r.Group("/api/v1/attempts", asUser)
	g.POST("/start", h.Start)
	g.PUT("/:attempt_id/responses", h.SaveDraft)
	g.GET("/:attempt_id/state", h.GetState)
	g.POST("/submit", h.Submit)
	g.GET("/result/:attempt_id", h.GetResult)
	g.GET("/history", h.History)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (map[string]interface{}, *response.ErrorBody) {
	t.Helper()
	var body struct {
		Data  map[string]interface{} `json:"data"`
		Error *response.ErrorBody    `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data, body.Error
}

func TestSubmit_ReturnsResult(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)
	attemptID := uuid.New()
	questionID := uuid.New()
	answer := "A"

	uc.On("Submit", mock.Anything, userID, attemptID, []model.Response{
		{QuestionID: questionID, SelectedAnswer: &answer, IsMarked: true},
	}).Return(&model.GradedResult{TotalMarks: 4, CorrectAnswers: 1, Accuracy: 100, Percentile: 30}, nil)

	body := `{"attempt_id":"` + attemptID.String() + `","responses":[{"question_id":"` + questionID.String() + `","selected_answer":"A","is_marked":true}]}`
	w := do(attemptRouter(uc), http.MethodPost, "/api/v1/attempts/submit", body)

	require.Equal(t, http.StatusOK, w.Code)
	data, _ := decode(t, w)
	result := data["result"].(map[string]interface{})
	assert.Equal(t, 4.0, result["total_marks"])
	assert.Equal(t, 100.0, result["accuracy"])
	uc.AssertExpectations(t)
}

func TestSubmit_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   response.ErrCode
	}{
		{name: "already submitted", err: service.ErrAlreadySubmitted, status: http.StatusConflict, code: response.ErrAlreadySubmitted},
		{name: "not found", err: service.ErrAttemptNotFound, status: http.StatusNotFound, code: response.ErrAttemptNotFound},
		{name: "invalid input", err: service.ErrInvalidInput, status: http.StatusBadRequest, code: response.ErrInvalidPayload},
		{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError, code: response.ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mocks.MockAttemptUsecase)
			uc.On("Submit", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil, tt.err)

			w := do(attemptRouter(uc), http.MethodPost, "/api/v1/attempts/submit", `{"attempt_id":"`+uuid.NewString()+`"}`)

			assert.Equal(t, tt.status, w.Code)
			_, errBody := decode(t, w)
			require.NotNil(t, errBody)
			assert.Equal(t, tt.code, errBody.Code)
		})
	}
}

func TestSubmit_ValidationError(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)

	w := do(attemptRouter(uc), http.MethodPost, "/api/v1/attempts/submit", `{"responses":[]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, errBody := decode(t, w)
	require.NotNil(t, errBody)
	assert.Equal(t, response.ErrValidation, errBody.Code)
	assert.Contains(t, errBody.Fields, "attempt_id")
	uc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_Created(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)
	testID := uuid.New()
	attemptID := uuid.New()

	uc.On("Start", mock.Anything, userID, testID).Return(&model.StartAttemptResponse{AttemptID: attemptID}, nil)

	w := do(attemptRouter(uc), http.MethodPost, "/api/v1/attempts/start", `{"test_id":"`+testID.String()+`"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	data, _ := decode(t, w)
	assert.Equal(t, attemptID.String(), data["attempt_id"])
}

func TestStart_TestNotFound(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)
	uc.On("Start", mock.Anything, userID, mock.Anything).Return(nil, service.ErrTestNotFound)

	w := do(attemptRouter(uc), http.MethodPost, "/api/v1/attempts/start", `{"test_id":"`+uuid.NewString()+`"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	_, errBody := decode(t, w)
	assert.Equal(t, response.ErrTestNotFound, errBody.Code)
}

func TestGetResult_InvalidID(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)

	w := do(attemptRouter(uc), http.MethodGet, "/api/v1/attempts/result/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, errBody := decode(t, w)
	assert.Equal(t, response.ErrInvalidID, errBody.Code)
}

func TestGetResult_ResolvesTestAndUser(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)
	attemptID := uuid.New()
	uc.On("GetResult", mock.Anything, userID, attemptID).Return(&model.AttemptDetail{
		Attempt: model.Attempt{ID: attemptID, UserID: userID, Status: model.AttemptStatusSubmitted},
		Test:    model.TestSummary{Name: "Mock Test 1", Shift: model.Shift1},
		User:    model.UserProfile{ID: userID, Name: "Asha"},
	}, nil)

	w := do(attemptRouter(uc), http.MethodGet, "/api/v1/attempts/result/"+attemptID.String(), "")

	require.Equal(t, http.StatusOK, w.Code)
	data, _ := decode(t, w)
	assert.Equal(t, "SUBMITTED", data["status"])
	assert.Equal(t, "Mock Test 1", data["test"].(map[string]interface{})["name"])
	assert.Equal(t, "Asha", data["user"].(map[string]interface{})["name"])
}

func TestSaveDraft(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)
	attemptID := uuid.New()
	questionID := uuid.New()
	uc.On("SaveDraft", mock.Anything, userID, attemptID, []model.Response{{QuestionID: questionID, IsReviewed: true}}).Return(nil)

	w := do(attemptRouter(uc), http.MethodPut, "/api/v1/attempts/"+attemptID.String()+"/responses",
		`{"responses":[{"question_id":"`+questionID.String()+`","is_reviewed":true}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	data, _ := decode(t, w)
	assert.Equal(t, 1.0, data["saved"])
	uc.AssertExpectations(t)
}

func TestHistory_ParsesFilters(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)
	uc.On("ListForOwner", mock.Anything, userID, repository.AttemptListOpts{
		Status: model.AttemptStatusSubmitted,
		Limit:  5,
		Offset: 10,
	}).Return([]model.AttemptSummary{}, nil)

	w := do(attemptRouter(uc), http.MethodGet, "/api/v1/attempts/history?status=SUBMITTED&limit=5&offset=10", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"pagination":{"limit":5,"offset":10,"count":0}`)
	uc.AssertExpectations(t)
}

func TestHistory_RejectsBadStatus(t *testing.T) {
	uc := new(mocks.MockAttemptUsecase)

	w := do(attemptRouter(uc), http.MethodGet, "/api/v1/attempts/history?status=DONE", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTestHandler_Questions(t *testing.T) {
	catalog := new(mocks.MockCatalogReader)
	testID := uuid.New()
	catalog.On("PaperForTest", mock.Anything, testID).Return(&model.TestPaper{
		Test:      model.Test{ID: testID, Name: "Mock Test 1"},
		Questions: []model.QuestionForCandidate{{ID: uuid.New(), Text: "2+2?", Options: []string{"3", "4"}}},
	}, nil)
	catalog.On("GetTest", mock.Anything, mock.Anything).Return(nil, service.ErrTestNotFound)

	h := handler.NewTestHandler(catalog, zerolog.Nop())
	r := gin.New()
	r.GET("/tests/:test_id", h.GetTest)
	r.GET("/tests/:test_id/questions", h.GetQuestions)

	w := do(r, http.MethodGet, "/tests/"+testID.String()+"/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correct_answer")

	w = do(r, http.MethodGet, "/tests/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	auth := new(mocks.MockAuthenticator)
	auth.On("Login", mock.Anything, "asha@example.com", "secret123").
		Return(&model.LoginResponse{Token: "jwt", User: model.User{ID: 1}}, nil)
	auth.On("Login", mock.Anything, "asha@example.com", "wrongpass").
		Return(nil, service.ErrInvalidCredentials)

	h := handler.NewAuthHandler(auth, zerolog.Nop())
	r := gin.New()
	r.POST("/login", h.Login)

	w := do(r, http.MethodPost, "/login", `{"email":"asha@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	data, _ := decode(t, w)
	assert.Equal(t, "jwt", data["token"])

	w = do(r, http.MethodPost, "/login", `{"email":"asha@example.com","password":"wrongpass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/login", `{"email":"not-an-email","password":"secret123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
