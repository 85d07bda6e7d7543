package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/imperialbinding/billing/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentForm struct {
	CustomerID  uint64  `json:"customer_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate string  `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Reference   string  `json:"reference" binding:"max=5"`
	Method      string  `json:"method" binding:"omitempty,oneof=cash card"`
	Internal    string  `json:"-"`
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/payments", func(c *gin.Context) {
		var form paymentForm
		if err := c.ShouldBindJSON(&form); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	body := `{"amount": -5, "payment_date": "14/03/2025", "reference": "too-long", "method": "cheque"}`
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-validation")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-validation", resp.Error.RequestID)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", messages["customer_id"])
	assert.Equal(t, "Must be greater than 0", messages["amount"])
	assert.Equal(t, "Must be a date in the format yyyy-MM-dd", messages["payment_date"])
	assert.Equal(t, "Must be at most 5 characters", messages["reference"])
	assert.Equal(t, "Must be one of: cash card", messages["method"])
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestDateFormatHint(t *testing.T) {
	assert.Equal(t, "yyyy-MM-dd", dateFormatHint("2006-01-02"))
	assert.Equal(t, "15:04", dateFormatHint("15:04"))
}
