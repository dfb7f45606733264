package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/lumiscan/auth-service/internal/jwt"
	"github.com/lumiscan/auth-service/internal/middlewares"
	"github.com/lumiscan/auth-service/internal/services"
	"github.com/stretchr/testify/assert"
)

// The delete handler always runs behind the auth gate, so the tests wire it
// the same way: middleware in front, claims arriving via context.
func TestDeleteAccountHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	claims := &jwt.Claims{UserID: userID, Email: "a@x.com"}

	tests := []struct {
		name          string
		authHeader    string
		tokenerSetup  func(m *middlewares.MockTokener)
		deleterSetup  func(m *MockAccountDeleter)
		expectedCode  int
		expectedError string
	}{
		{
			name:       "success",
			authHeader: "Bearer validtoken",
			tokenerSetup: func(m *middlewares.MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("validtoken", nil)
				m.EXPECT().GetClaims(gomock.Any(), "validtoken").Return(claims, nil)
			},
			deleterSetup: func(m *MockAccountDeleter) {
				m.EXPECT().DeleteAccount(gomock.Any(), userID).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "missing token",
			tokenerSetup: func(m *middlewares.MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("authorization header missing"))
			},
			deleterSetup:  func(m *MockAccountDeleter) {},
			expectedCode:  http.StatusUnauthorized,
			expectedError: "Authorization required",
		},
		{
			name:       "invalid or expired token",
			authHeader: "Bearer tampered",
			tokenerSetup: func(m *middlewares.MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("tampered", nil)
				m.EXPECT().GetClaims(gomock.Any(), "tampered").Return(nil, jwt.ErrInvalidToken)
			},
			deleterSetup:  func(m *MockAccountDeleter) {},
			expectedCode:  http.StatusForbidden,
			expectedError: "Invalid or expired token",
		},
		{
			name:       "already deleted",
			authHeader: "Bearer validtoken",
			tokenerSetup: func(m *middlewares.MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("validtoken", nil)
				m.EXPECT().GetClaims(gomock.Any(), "validtoken").Return(claims, nil)
			},
			deleterSetup: func(m *MockAccountDeleter) {
				m.EXPECT().DeleteAccount(gomock.Any(), userID).Return(services.ErrUserNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Account not found",
		},
		{
			name:       "internal error",
			authHeader: "Bearer validtoken",
			tokenerSetup: func(m *middlewares.MockTokener) {
				m.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).Return("validtoken", nil)
				m.EXPECT().GetClaims(gomock.Any(), "validtoken").Return(claims, nil)
			},
			deleterSetup: func(m *MockAccountDeleter) {
				m.EXPECT().DeleteAccount(gomock.Any(), userID).Return(errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTokener := middlewares.NewMockTokener(ctrl)
			mockDeleter := NewMockAccountDeleter(ctrl)
			tt.tokenerSetup(mockTokener)
			tt.deleterSetup(mockDeleter)

			handler := middlewares.AuthMiddleware(mockTokener)(NewDeleteAccountHandler(mockDeleter))

			req := httptest.NewRequest(http.MethodDelete, "/api/auth/account", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var resp DeleteAccountResponse
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "Account deleted", resp.Message)
				return
			}

			var resp DeleteAccountErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedError, resp.Error)
		})
	}
}

func TestDeleteAccountHandler_NoClaimsInContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Handler reached without the gate in front: treated as unauthorized.
	handler := NewDeleteAccountHandler(NewMockAccountDeleter(ctrl))

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/account", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
