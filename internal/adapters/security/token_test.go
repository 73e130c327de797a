package security

import (
	"regexp"
	"testing"
)

func TestNewTokenAlphabetAndLength(t *testing.T) {
	t.Parallel()

	g := NewRandomTokenGenerator()
	pattern := regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

	for _, length := range []int{1, 32, 48} {
		token, err := g.NewToken(length)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		if len(token) != length {
			t.Fatalf("length %d, want %d", len(token), length)
		}
		if !pattern.MatchString(token) {
			t.Fatalf("token %q outside alphabet", token)
		}
	}

	if _, err := g.NewToken(0); err == nil {
		t.Fatalf("expected error for non-positive length")
	}
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()

	g := NewRandomTokenGenerator()
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		token, err := g.NewToken(32)
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated")
		}
		seen[token] = true
	}
}
