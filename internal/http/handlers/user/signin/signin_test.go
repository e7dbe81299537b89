package signin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/services/account"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Signin(ctx context.Context, in account.SigninInput) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSigninHandler_ServeHTTP(t *testing.T) {
	creds := Request{Email: "jane@example.com", Password: "password123"}
	input := account.SigninInput{Email: "jane@example.com", Password: "password123"}

	tests := []struct {
		name           string
		requestBody    any
		mockUser       *models.User
		mockErr        error
		callService    bool
		wantStatusCode int
		wantStatus     string
		wantMessage    string
		wantData       map[string]any
	}{
		{
			name:           "valid credentials",
			requestBody:    creds,
			mockUser:       &models.User{UUID: "user-1", Name: "Jane Doe", Email: "jane@example.com"},
			callService:    true,
			wantStatusCode: http.StatusOK,
			wantStatus:     "SUCCESS",
			wantMessage:    MsgSuccess,
			wantData:       map[string]any{"id": "user-1", "name": "Jane Doe", "email": "jane@example.com"},
		},
		{
			name:           "missing body",
			requestBody:    "",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "FAILED",
			wantMessage:    "Missing request body.",
		},
		{
			name:           "password is a number",
			requestBody:    `{"email":"jane@example.com","password":12345678}`,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "FAILED",
			wantMessage:    "Invalid request body.",
		},
		{
			name:           "missing fields",
			requestBody:    creds,
			mockErr:        &account.ValidationError{Message: account.MsgSigninRequired},
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "FAILED",
			wantMessage:    account.MsgSigninRequired,
		},
		{
			name:           "invalid credentials",
			requestBody:    creds,
			mockErr:        account.ErrInvalidCredentials,
			callService:    true,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "FAILED",
			wantMessage:    MsgUnauthorized,
		},
		{
			name:           "store failure",
			requestBody:    creds,
			mockErr:        errors.New("i/o timeout"),
			callService:    true,
			wantStatusCode: http.StatusInternalServerError,
			wantStatus:     "FAILED",
			wantMessage:    MsgInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			handler := New(newNoopLogger(), svc)

			if tt.callService {
				svc.On("Signin", mock.Anything, input).Return(tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(v)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/user/signin", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])
			assert.Equal(t, tt.wantMessage, got["message"])

			if tt.wantData != nil {
				data, ok := got["data"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, tt.wantData, data)
			} else {
				assert.NotContains(t, got, "data")
			}

			if tt.callService {
				svc.AssertExpectations(t)
			} else {
				svc.AssertNotCalled(t, "Signin", mock.Anything, mock.Anything)
			}
		})
	}
}
