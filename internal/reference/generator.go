// Package reference produces unique booking references.
package reference

import (
	"context"
	"crypto/rand"
	"fmt"

	"ynovair/internal/domain"
)

const (
	// Alphabet matches the printed reference format: uppercase letters
	// and digits only.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length   = 8

	DefaultMaxAttempts = 5
)

// ExistsFunc reports whether a reference is already taken.
type ExistsFunc func(ctx context.Context, ref string) (bool, error)

// Generator draws random references and checks them against existing
// bookings before acceptance. The 36^8 space makes collisions practically
// unreachable, but they are still retried a bounded number of times.
type Generator struct {
	exists      ExistsFunc
	maxAttempts int
}

func NewGenerator(exists ExistsFunc, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{exists: exists, maxAttempts: maxAttempts}
}

// Generate returns a fresh collision-checked reference, or
// domain.ErrReferenceExhausted after maxAttempts collisions.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < g.maxAttempts; i++ {
		ref, err := random()
		if err != nil {
			return "", err
		}
		taken, err := g.exists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !taken {
			return ref, nil
		}
	}
	return "", domain.ErrReferenceExhausted
}

func random() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	out := make([]byte, Length)
	for i, b := range buf {
		out[i] = Alphabet[int(b)%len(Alphabet)]
	}
	return string(out), nil
}
