package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kitRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=5"`
	Status   string `json:"status" form:"status" binding:"omitempty,oneof=available in_use"`
	Quantity int    `json:"quantity" form:"quantity" binding:"omitempty,min=1"`
	Internal string `json:"-" form:"-"`
}

func bindKit(t *testing.T, contentType, body string) error {
	t.Helper()
	SetupValidator()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/kits", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", contentType)
	var req kitRequest
	return c.ShouldBind(&req)
}

func TestFormatValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		code        string
		fields      []string
		message     string
	}{
		{
			name:        "json field names",
			contentType: "application/json",
			body:        `{"name":"far too long","status":"lost"}`,
			code:        dto.ErrCodeValidation,
			fields:      []string{"name", "status"},
			message:     "Must be at most 5 characters",
		},
		{
			name:        "form field names",
			contentType: "application/x-www-form-urlencoded",
			body:        "quantity=0",
			code:        dto.ErrCodeValidation,
			fields:      []string{"name", "quantity"},
			message:     "This field is required",
		},
		{
			name:        "wrong json type",
			contentType: "application/json",
			body:        `{"name":"Kit","quantity":"two"}`,
			code:        dto.ErrCodeValidation,
			fields:      []string{"quantity"},
			message:     "Must be a int",
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"name":`,
			code:        dto.ErrCodeBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := bindKit(t, tt.contentType, tt.body)
			require.Error(t, err)

			resp := FormatValidationErrors(err, "req-7")
			require.NotNil(t, resp.Error)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-7", resp.Error.RequestID)

			var fields []string
			for _, d := range resp.Error.Details {
				fields = append(fields, d.Field)
			}
			assert.Equal(t, tt.fields, fields)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Details[0].Message)
			}
		})
	}
}

func TestFormatValidationErrors_Plain(t *testing.T) {
	resp := FormatValidationErrors(errors.New("unexpected EOF"), "")
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "unexpected EOF")
}

func TestBindValid(t *testing.T) {
	assert.NoError(t, bindKit(t, "application/json", `{"name":"Kit","status":"in_use"}`))
}
