package auth

import (
	"fmt"

	"github.com/lvdopqt/carteira-digital-api/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces salted bcrypt digests. The cost and the salt are
// embedded in the digest, so Verify needs nothing else.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher clamps cost to the range bcrypt accepts.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plain matches digest. Malformed digests do not match.
func (h *PasswordHasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// PlaceholderDigest hashes a random secret nobody knows. Accounts provisioned
// from an external identity get it so local password login never succeeds.
func (h *PasswordHasher) PlaceholderDigest() (string, error) {
	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return "", fmt.Errorf("placeholder secret: %w", err)
	}
	return h.Hash(secret)
}
