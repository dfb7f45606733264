package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lumiscan/auth-service/internal/logger"
	"github.com/lumiscan/auth-service/internal/models"
	"github.com/lumiscan/auth-service/internal/repositories"
	"github.com/segmentio/kafka-go"
)

// Error variables
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, email, passwordHash, name string) (*models.UserDB, error)
	Delete(ctx context.Context, userID uuid.UUID) (bool, error)
}

// PasswordHasher defines one-way hashing and verification of passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Compare(digest, plaintext string) bool
}

// TokenGenerator defines an interface for issuing bearer tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// AuthService handles signup, login, and account deletion.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	hasher      PasswordHasher
	token       TokenGenerator
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	hasher PasswordHasher,
	token TokenGenerator,
	kafkaWriter KafkaWriter,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		hasher:      hasher,
		token:       token,
		kafkaWriter: kafkaWriter,
	}
}

// normalizeEmail fixes the case policy for the whole subsystem: emails are
// trimmed and lower-cased before any store access.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a new user and returns the record with a fresh token.
// The GetByEmail pre-check is only a fast path; the store's unique
// constraint is the authoritative conflict detector under races.
func (svc *AuthService) Signup(ctx context.Context, email, password, name string) (*models.UserDB, string, error) {
	email = normalizeEmail(email)

	existing, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailAlreadyRegistered
	}

	passwordHash, err := svc.hasher.Hash(ctx, password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, "", err
	}

	user, err := svc.writer.Save(ctx, email, passwordHash, name)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, "", ErrEmailAlreadyRegistered
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, "", err
	}

	svc.publishVerificationRequest(ctx, user)

	token, err := svc.token.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, "", err
	}

	return user, token, nil
}

// publishVerificationRequest asks the email pipeline to send a verification
// message. The account exists and is usable regardless of the outcome here.
func (svc *AuthService) publishVerificationRequest(ctx context.Context, user *models.UserDB) {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping verification email request", "user_id", user.UserID)
		return
	}

	event := models.NewVerificationEmailRequested(user.UserID, user.Email, time.Now().Unix())

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal verification email request", "user_id", user.UserID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.UserID),
		Value: data,
	}

	if err := svc.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish verification email request", "user_id", user.UserID, "error", err)
	} else {
		logger.Log.Infow("Verification email request published", "user_id", user.UserID)
	}
}

// Login authenticates a user and returns the record with a fresh token.
// Unknown email and password mismatch are indistinguishable to the caller.
func (svc *AuthService) Login(ctx context.Context, email, password string) (*models.UserDB, string, error) {
	email = normalizeEmail(email)

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !svc.hasher.Compare(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := svc.token.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, "", err
	}

	return user, token, nil
}

// DeleteAccount removes the user with the given id. A replayed delete for
// an already-removed account yields ErrUserNotFound.
func (svc *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	removed, err := svc.writer.Delete(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "user_id", userID, "err", err)
		return err
	}
	if !removed {
		return ErrUserNotFound
	}
	return nil
}
