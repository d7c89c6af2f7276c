package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	// Should not panic
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type draftInput struct {
		PageType      string `json:"page_type" binding:"required,min=1,max=50"`
		VersionNumber int    `json:"version_number" binding:"required,gte=1"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req draftInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns validation errors for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"page_type": "", "version_number": 0}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 2)
		// Field names come from the json tags, not the Go struct fields
		assert.Equal(t, "page_type", resp.Error.Details[0].Field)
	})

	t.Run("returns success for valid input", func(t *testing.T) {
		body := strings.NewReader(`{"page_type": "home", "version_number": 3}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	type input struct {
		Required string `binding:"required"`
		Min      string `binding:"min=5"`
		Max      string `binding:"max=10"`
		UUID     string `binding:"uuid"`
		OneOf    string `binding:"oneof=draft acceptance published"`
		GTE      int    `binding:"gte=10"`
		URL      string `binding:"url"`
	}

	v := validator.New()
	v.SetTagName("binding")

	tests := []struct {
		field    string
		expected string
	}{
		{"Required", "This field is required"},
		{"Min", "Must be at least 5 characters"},
		{"UUID", "Invalid UUID format"},
		{"OneOf", "Must be one of: draft acceptance published"},
		{"GTE", "Must be greater than or equal to 10"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			err := v.Struct(input{Min: "ab", Max: "x", UUID: "nope", OneOf: "reverted", GTE: 1, URL: "nope"})
			require.Error(t, err)

			for _, e := range err.(validator.ValidationErrors) {
				if e.Field() == tt.field {
					assert.Equal(t, tt.expected, validationMessage(e))
					return
				}
			}
			t.Fatalf("no validation error produced for field %s", tt.field)
		})
	}
}

func TestHandleValidationError_NonValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/test", nil)

	HandleValidationError(c, assert.AnError)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
