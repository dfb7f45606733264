package password

import (
	"context"
	"runtime"

	"golang.org/x/crypto/bcrypt"
)

// Hasher produces salted bcrypt digests and verifies plaintexts against
// them. The cost is fixed at construction; hashing is CPU-bound, so the
// number of concurrent Hash calls is capped by a semaphore.
type Hasher struct {
	cost int
	sem  chan struct{}
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithMaxConcurrent caps the number of in-flight Hash calls.
func WithMaxConcurrent(n int) Option {
	return func(h *Hasher) {
		if n > 0 {
			h.sem = make(chan struct{}, n)
		}
	}
}

// New creates a Hasher with bcrypt.DefaultCost and a concurrency cap of
// GOMAXPROCS.
func New(opts ...Option) *Hasher {
	h := &Hasher{
		cost: bcrypt.DefaultCost,
		sem:  make(chan struct{}, runtime.GOMAXPROCS(0)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a salted digest of plaintext. Two calls with the same input
// yield different digests. Blocks while the concurrency cap is reached and
// honors ctx cancellation while waiting.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-h.sem }()

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Compare reports whether plaintext matches the digest. bcrypt's comparison
// is constant-time with respect to the digest contents.
func (h *Hasher) Compare(digest, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
