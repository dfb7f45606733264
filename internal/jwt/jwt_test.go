package jwt

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	secret := "test-secret"
	j := New(WithSecretKey(secret), WithExpiration(time.Minute))

	userID := uuid.New()
	ctx := context.Background()

	token, err := j.Generate(ctx, userID, "a@x.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Valid token should pass validation
	err = j.Validate(ctx, token)
	assert.NoError(t, err)

	// Extract claims
	claims, err := j.GetClaims(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWT_ExpiredToken(t *testing.T) {
	secret := "test-secret"
	j := New(WithSecretKey(secret), WithExpiration(-time.Minute)) // already expired

	userID := uuid.New()
	ctx := context.Background()

	token, err := j.Generate(ctx, userID, "a@x.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Validation should fail with the same error kind as tampering
	err = j.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := j.GetClaims(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWT_InvalidToken(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()

	// Totally invalid string
	err := j.Validate(ctx, "invalid.token.string")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_TamperedToken(t *testing.T) {
	ctx := context.Background()
	j := New(WithSecretKey("secret"), WithExpiration(time.Minute))

	token, err := j.Generate(ctx, uuid.New(), "a@x.com")
	assert.NoError(t, err)

	// Signed with one key, verified with another
	other := New(WithSecretKey("another-secret"))
	assert.ErrorIs(t, other.Validate(ctx, token), ErrInvalidToken)
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()

	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{name: "valid", header: "Bearer sometoken", wantToken: "sometoken"},
		{name: "lowercase scheme", header: "bearer sometoken", wantToken: "sometoken"},
		{name: "missing header", header: "", wantErr: true},
		{name: "wrong scheme", header: "Basic sometoken", wantErr: true},
		{name: "no token", header: "Bearer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
