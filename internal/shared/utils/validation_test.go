package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/candor-hq/candor/internal/shared/errors"
)

type reportForm struct {
	Title      string `json:"title" validate:"required,max=200"`
	Severity   string `json:"severity" validate:"required,severity"`
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

func TestValidateStruct_FieldMessagesUseJSONNames(t *testing.T) {
	err := ValidateStruct(reportForm{Severity: "urgent", CategoryID: "nope"})
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	assert.Contains(t, appErr.Details, "title is required")
	assert.Contains(t, appErr.Details, "severity must be one of [low medium high critical]")
	assert.Contains(t, appErr.Details, "category_id must be a valid UUID")
}

func TestValidateStruct_Valid(t *testing.T) {
	err := ValidateStruct(reportForm{
		Title:      "Broken light in lobby",
		Severity:   "low",
		CategoryID: "3b241101-e2bb-4255-8caf-4136c566a962",
	})
	assert.NoError(t, err)
}

func TestErrorResponseWithError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponseWithError(c, errors.NewInternalError("failed to load issue", "dial tcp 10.0.0.5:3306: refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestErrorResponseWithError_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponseWithError(c, errors.NewNotFoundError("no issue matches this token"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"not_found"`)
}
