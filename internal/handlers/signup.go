package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lumiscan/auth-service/internal/logger"
	"github.com/lumiscan/auth-service/internal/models"
	"github.com/lumiscan/auth-service/internal/services"
)

// Signuper defines the interface that the signup service must implement.
type Signuper interface {
	Signup(ctx context.Context, email, password, name string) (*models.UserDB, string, error)
}

// SignupRequest represents the JSON body for account creation
// swagger:model SignupRequest
type SignupRequest struct {
	// Email
	// required: true
	// example: a@x.com
	Email string `json:"email" validate:"required,email,max=254"`

	// Password
	// required: true
	// example: password1
	Password string `json:"password" validate:"required,min=8,max=72"`

	// Display name
	// required: true
	// example: Alice
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// SignupResponse represents a successful signup response
// swagger:model SignupResponse
type SignupResponse struct {
	// Created user
	User models.User `json:"user"`

	// JWT token
	// example: JWT_TOKEN
	Token string `json:"token"`
}

// SignupErrorResponse represents an error response for signup
// swagger:model SignupErrorResponse
type SignupErrorResponse struct {
	// Error message
	// example: Email already registered
	Error string `json:"error"`

	// Violated fields, present on validation failures only
	Fields map[string]string `json:"fields,omitempty"`
}

// NewSignupHandler returns an HTTP handler for account creation.
// @Summary Sign up a new user
// @Description Creates a new account with a unique email. The password is hashed before storing and a bearer token is issued for the new user.
// @Tags auth
// @Accept json
// @Produce json
// @Param signupRequest body handlers.SignupRequest true "Signup request"
// @Success 201 {object} handlers.SignupResponse "Account created"
// @Failure 400 {object} handlers.SignupErrorResponse "Invalid request body or validation failure"
// @Failure 409 {object} handlers.SignupErrorResponse "Email already registered"
// @Router /api/auth/signup [post]
func NewSignupHandler(svc Signuper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SignupRequest

		w.Header().Set("Content-Type", "application/json")

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error: "Invalid request body",
			})
			return
		}

		if err := validate.Struct(req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SignupErrorResponse{
				Error:  "Validation failed",
				Fields: validationFields(err),
			})
			return
		}

		user, token, err := svc.Signup(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrEmailAlreadyRegistered):
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(SignupErrorResponse{
					Error: "Email already registered",
				})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(SignupErrorResponse{
					Error: "Internal server error",
				})
			}
			return
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SignupResponse{
			User:  user.PublicView(),
			Token: token,
		})
	}
}
