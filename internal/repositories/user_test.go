package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupUserPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

	CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(254) NOT NULL UNIQUE,
		name VARCHAR(100) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestUserRepositories_SaveAndGet(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	created, err := writeRepo.Save(ctx, "alice@example.com", "HASH", "Alice")
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.NotEmpty(t, created.UserID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, "Alice", created.Name)

	fetched, err := readRepo.GetByEmail(ctx, "alice@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, fetched)
	assert.Equal(t, created.UserID, fetched.UserID)
	assert.Equal(t, "HASH", fetched.PasswordHash)
}

func TestUserRepositories_GetByEmail_NotFound(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	readRepo := NewUserReadRepository(db)

	user, err := readRepo.GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepositories_DuplicateEmail(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	ctx := context.Background()

	first, err := writeRepo.Save(ctx, "bob@example.com", "HASH1", "Bob")
	assert.NoError(t, err)

	second, err := writeRepo.Save(ctx, "bob@example.com", "HASH2", "Bobby")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Nil(t, second)

	// Exactly one record survives, untouched by the rejected insert
	var count int
	assert.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users WHERE email = $1", "bob@example.com"))
	assert.Equal(t, 1, count)

	var hash string
	assert.NoError(t, db.Get(&hash, "SELECT password_hash FROM users WHERE user_id = $1", first.UserID))
	assert.Equal(t, "HASH1", hash)
}

func TestUserRepositories_Delete(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	created, err := writeRepo.Save(ctx, "carol@example.com", "HASH", "Carol")
	assert.NoError(t, err)

	removed, err := writeRepo.Delete(ctx, created.UserID)
	assert.NoError(t, err)
	assert.True(t, removed)

	// Replayed delete finds nothing
	removed, err = writeRepo.Delete(ctx, created.UserID)
	assert.NoError(t, err)
	assert.False(t, removed)

	user, err := readRepo.GetByEmail(ctx, "carol@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepositories_IDsAreUnique(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	ctx := context.Background()

	first, err := writeRepo.Save(ctx, "dave@example.com", "HASH", "Dave")
	assert.NoError(t, err)

	second, err := writeRepo.Save(ctx, "erin@example.com", "HASH", "Erin")
	assert.NoError(t, err)

	assert.NotEqual(t, first.UserID, second.UserID)
}
