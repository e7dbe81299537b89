package signup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/login-server/internal/models"
	"github.com/magabrotheeeer/login-server/internal/services/account"
	"github.com/magabrotheeeer/login-server/internal/storage"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Signup(ctx context.Context, in account.SignupInput) (*models.User, error) {
	args := m.Called(ctx, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSignupHandler_ServeHTTP(t *testing.T) {
	validReq := Request{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Password:    "password123",
		DateOfBirth: "1990-05-17",
	}
	validInput := account.SignupInput{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Password:    "password123",
		DateOfBirth: "1990-05-17",
	}
	created := &models.User{
		UUID:        "user-1",
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
	}

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
			name:           "created",
			requestBody:    validReq,
			mockUser:       created,
			callService:    true,
			wantStatusCode: http.StatusCreated,
			wantStatus:     "SUCCESS",
			wantMessage:    MsgSuccess,
			wantData: map[string]any{
				"id":          "user-1",
				"name":        "Jane Doe",
				"email":       "jane@example.com",
				"dateOfBirth": "1990-05-17",
			},
		},
		{
			name:           "missing body",
			requestBody:    "",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "FAILED",
			wantMessage:    "Missing request body.",
		},
		{
			name:           "malformed json",
			requestBody:    "{not json",
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "FAILED",
			wantMessage:    "Invalid request body.",
		},
		{
			name:           "validation error",
			requestBody:    validReq,
			mockErr:        &account.ValidationError{Message: account.MsgInvalidName},
			callService:    true,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "FAILED",
			wantMessage:    account.MsgInvalidName,
		},
		{
			name:           "email taken",
			requestBody:    validReq,
			mockErr:        account.ErrEmailTaken,
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "FAILED",
			wantMessage:    MsgConflict,
		},
		{
			name:           "email taken on insert race",
			requestBody:    validReq,
			mockErr:        fmt.Errorf("account.Signup: %w: %w", account.ErrEmailTaken, storage.ErrEmailExists),
			callService:    true,
			wantStatusCode: http.StatusConflict,
			wantStatus:     "FAILED",
			wantMessage:    MsgConflict,
		},
		{
			name:           "store failure",
			requestBody:    validReq,
			mockErr:        errors.New("connection reset by peer"),
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
				svc.On("Signup", mock.Anything, validInput).Return(tt.mockUser, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/user/signup", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

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
				svc.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestSignupHandler_NoPasswordInResponse(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Signup", mock.Anything, mock.Anything).Return(&models.User{
		UUID:         "user-1",
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$shouldneverleak",
	}, nil).Once()

	body := `{"name":"Jane Doe","email":"jane@example.com","password":"password123","dateOfBirth":"1990-05-17"}`
	req := httptest.NewRequest(http.MethodPost, "/user/signup", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()

	New(newNoopLogger(), svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "shouldneverleak")
}
