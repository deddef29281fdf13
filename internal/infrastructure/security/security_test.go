package security

import (
	"errors"
	"testing"
	"time"

	"lifequest/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")
	id := uuid.New()

	pair, err := m.Generate(id)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pair.ExpiresIn != 900 {
		t.Errorf("ExpiresIn = %d, want 900", pair.ExpiresIn)
	}

	got, err := m.ValidateAccessToken(pair.AccessToken)
	if err != nil || got != id {
		t.Errorf("ValidateAccessToken = %v, %v", got, err)
	}
	got, err = m.ValidateRefreshToken(pair.RefreshToken)
	if err != nil || got != id {
		t.Errorf("ValidateRefreshToken = %v, %v", got, err)
	}
}

func TestTokenRejections(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")
	pair, err := m.Generate(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	other := NewTokenManager("other", "other")

	expired := NewTokenManager("access-secret", "refresh-secret")
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.Generate(uuid.New())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		check func() error
	}{
		{"refresh used as access", func() error { _, err := m.ValidateAccessToken(pair.RefreshToken); return err }},
		{"access used as refresh", func() error { _, err := m.ValidateRefreshToken(pair.AccessToken); return err }},
		{"wrong secret", func() error { _, err := other.ValidateAccessToken(pair.AccessToken); return err }},
		{"expired", func() error { _, err := m.ValidateAccessToken(old.AccessToken); return err }},
		{"garbage", func() error { _, err := m.ValidateAccessToken("not-a-jwt"); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.check(); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := NewTokenManager("a", "r")
	id := uuid.New()
	first, _ := m.Generate(id)
	second, _ := m.Generate(id)
	if first.RefreshToken == second.RefreshToken {
		t.Error("two refresh tokens for the same user in the same second are identical")
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasherWithCost(bcrypt.MinCost)
	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := h.Compare(hash, "password123"); err != nil {
		t.Errorf("Compare(correct) = %v", err)
	}
	if err := h.Compare(hash, "wrong"); err == nil {
		t.Error("Compare(wrong) succeeded")
	}
}
