package validator_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemsi/mockexam-backend/internal/model"
	"github.com/stemsi/mockexam-backend/internal/validator"
)

type catalogEntry struct {
	Section string   `yaml:"section" validate:"required,section"`
	Options []string `yaml:"options" validate:"max=4"`
}

func TestStruct_SectionTag(t *testing.T) {
	assert.Nil(t, validator.Struct(catalogEntry{Section: "Physics", Options: []string{"A"}}))

	fields := validator.Struct(catalogEntry{Section: "Biology"})
	require.Contains(t, fields, "section")
	assert.Equal(t, "section must be one of Physics, Chemistry, Mathematics", fields["section"])

	fields = validator.Struct(catalogEntry{Section: "Chemistry", Options: []string{"A", "B", "C", "D", "E"}})
	assert.Contains(t, fields, "options")
}

func TestBind_NestedResponseErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	var fields map[string]string
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req model.SubmitAttemptRequest
		fields = validator.Bind(c, &req)
	})

	body := `{"attempt_id":"6f1c1b9e-4f59-4a59-9d8a-0b9a8f9c3e11","responses":[{"selected_answer":"A"}]}`
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString(body)))

	require.Contains(t, fields, "responses[0].question_id")
	assert.Equal(t, "question_id is a required field", fields["responses[0].question_id"])
}

func TestBind_MalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	var fields map[string]string
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var req model.StartAttemptRequest
		fields = validator.Bind(c, &req)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/x", bytes.NewBufferString("{")))

	assert.Contains(t, fields, "detail")
}
