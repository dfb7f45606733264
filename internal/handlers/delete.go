package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/lumiscan/auth-service/internal/logger"
	"github.com/lumiscan/auth-service/internal/middlewares"
	"github.com/lumiscan/auth-service/internal/services"
)

// AccountDeleter defines the interface that the deletion service must implement.
type AccountDeleter interface {
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

// DeleteAccountResponse represents a successful deletion response
// swagger:model DeleteAccountResponse
type DeleteAccountResponse struct {
	// Success message
	// example: Account deleted
	Message string `json:"message"`
}

// DeleteAccountErrorResponse represents an error response for account deletion
// swagger:model DeleteAccountErrorResponse
type DeleteAccountErrorResponse struct {
	// Error message
	// example: Account not found
	Error string `json:"error"`
}

// NewDeleteAccountHandler returns an HTTP handler for account deletion.
// It runs behind the auth middleware, so a verified subject is expected in
// the request context.
// @Summary Delete the authenticated account
// @Description Removes the credential record of the token's subject. Tokens issued before deletion remain valid until expiry.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} handlers.DeleteAccountResponse "Account deleted"
// @Failure 401 {object} handlers.DeleteAccountErrorResponse "Missing bearer token"
// @Failure 403 {object} handlers.DeleteAccountErrorResponse "Invalid or expired token"
// @Failure 404 {object} handlers.DeleteAccountErrorResponse "Account already deleted"
// @Router /api/auth/account [delete]
func NewDeleteAccountHandler(svc AccountDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		claims, ok := middlewares.ClaimsFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(DeleteAccountErrorResponse{
				Error: "Authorization required",
			})
			return
		}

		err := svc.DeleteAccount(r.Context(), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				w.WriteHeader(http.StatusNotFound)
				json.NewEncoder(w).Encode(DeleteAccountErrorResponse{
					Error: "Account not found",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(DeleteAccountErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(DeleteAccountResponse{
			Message: "Account deleted",
		})
	}
}
