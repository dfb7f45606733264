package models

import "github.com/google/uuid"

// VerificationEmailRequested is published to Kafka when a new account is
// created. Delivery itself is handled by a downstream consumer; a publish
// failure never aborts account creation.
type VerificationEmailRequested struct {
	UserID      string `json:"user_id"`      // Subject the email is for
	Email       string `json:"email"`        // Destination address
	RequestedAt int64  `json:"requested_at"` // Unix timestamp
}

// NewVerificationEmailRequested builds the event payload for a user.
func NewVerificationEmailRequested(userID uuid.UUID, email string, requestedAt int64) VerificationEmailRequested {
	return VerificationEmailRequested{
		UserID:      userID.String(),
		Email:       email,
		RequestedAt: requestedAt,
	}
}
