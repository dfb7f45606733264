package password

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := New()
	ctx := context.Background()

	digest, err := h.Hash(ctx, "password1")
	assert.NoError(t, err)
	assert.NotEmpty(t, digest)
	assert.NotEqual(t, "password1", digest)

	assert.True(t, h.Compare(digest, "password1"))
	assert.False(t, h.Compare(digest, "wrong"))
}

func TestHasher_HashIsRandomized(t *testing.T) {
	h := New()
	ctx := context.Background()

	first, err := h.Hash(ctx, "password1")
	assert.NoError(t, err)
	second, err := h.Hash(ctx, "password1")
	assert.NoError(t, err)

	// Salted digests of the same input must differ; only Compare can
	// relate them back to the plaintext.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Compare(first, "password1"))
	assert.True(t, h.Compare(second, "password1"))
}

func TestHasher_CancelledContext(t *testing.T) {
	// Fill the only slot so Hash has to wait, then cancel.
	h := New(WithMaxConcurrent(1))
	h.sem <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "password1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHasher_CompareGarbageDigest(t *testing.T) {
	h := New()
	assert.False(t, h.Compare("not-a-bcrypt-digest", "password1"))
}
