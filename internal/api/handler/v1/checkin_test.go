package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Toms422/trial-master-pro/internal/api/handler/v1/response"
	"github.com/Toms422/trial-master-pro/internal/domain"
	"github.com/Toms422/trial-master-pro/internal/service"
)

type stubCheckInService struct {
	participants map[string]domain.Participant
}

func (s *stubCheckInService) ResolveQRCode(_ context.Context, qrCode string) (domain.Participant, error) {
	p, ok := s.participants[qrCode]
	if !ok {
		return domain.Participant{}, service.ErrQRCodeNotFound
	}
	return p, nil
}

func (s *stubCheckInService) CompleteForm(_ context.Context, qrCode string, form domain.CheckInForm, _ uint) (domain.Participant, service.CheckInStatus, error) {
	p, ok := s.participants[qrCode]
	if !ok {
		return domain.Participant{}, "", service.ErrQRCodeNotFound
	}
	if p.FormCompleted {
		return p, service.CheckInAlreadySubmitted, nil
	}

	p.FullName = form.FullName
	p.FormCompleted = true
	s.participants[qrCode] = p
	return p, service.CheckInCompleted, nil
}

func newCheckInRouter(svc *stubCheckInService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handler := NewCheckInHandler(svc)
	router.GET("/api/v1/check-in/:qrCode", handler.HandleGetCheckIn)
	router.POST("/api/v1/check-in/:qrCode", handler.HandleSubmitCheckIn)

	return router
}

func TestHandleGetCheckIn(t *testing.T) {
	svc := &stubCheckInService{participants: map[string]domain.Participant{
		"tok-pending": {ID: 1, FullName: "Dana Levi", Arrived: true},
		"tok-done":    {ID: 2, FullName: "Noa Cohen", Arrived: true, FormCompleted: true},
	}}
	router := newCheckInRouter(svc)

	t.Run("pending token returns the participant", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/check-in/tok-pending", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp response.CheckInResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.CheckInStatusPending, resp.Status)
		require.NotNil(t, resp.Participant)
		assert.Equal(t, "Dana Levi", resp.Participant.FullName)
	})

	t.Run("completed token hides the participant", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/check-in/tok-done", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp response.CheckInResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.CheckInStatusAlreadySubmitted, resp.Status)
		assert.Nil(t, resp.Participant)
	})

	t.Run("unknown token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/check-in/tok-nope", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleSubmitCheckIn(t *testing.T) {
	validBody := `{"full_name":"Dana Levi","age":30,"weight_kg":62,"height_cm":168,"gender":"female","consent":true}`

	t.Run("valid submission completes", func(t *testing.T) {
		svc := &stubCheckInService{participants: map[string]domain.Participant{
			"tok-1": {ID: 1, Arrived: true},
		}}
		router := newCheckInRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check-in/tok-1", strings.NewReader(validBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp response.CheckInResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.CheckInStatusCompleted, resp.Status)
	})

	t.Run("resubmission reports already submitted", func(t *testing.T) {
		svc := &stubCheckInService{participants: map[string]domain.Participant{
			"tok-1": {ID: 1, Arrived: true, FormCompleted: true},
		}}
		router := newCheckInRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check-in/tok-1", strings.NewReader(validBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp response.CheckInResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, response.CheckInStatusAlreadySubmitted, resp.Status)
	})

	t.Run("validation failures name the fields", func(t *testing.T) {
		svc := &stubCheckInService{participants: map[string]domain.Participant{
			"tok-1": {ID: 1, Arrived: true},
		}}
		router := newCheckInRouter(svc)

		body := `{"full_name":"Dana Levi","age":30,"weight_kg":500,"height_cm":168,"gender":"female","consent":false}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check-in/tok-1", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp response.Err
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Contains(t, resp.Fields, "weight_kg")
		assert.Contains(t, resp.Fields, "consent")
	})

	t.Run("unknown token", func(t *testing.T) {
		svc := &stubCheckInService{participants: map[string]domain.Participant{}}
		router := newCheckInRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/check-in/tok-nope", strings.NewReader(validBody))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
