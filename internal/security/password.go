package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/inventory-service/internal/config"
)

// PasswordHasher hashes and verifies passwords with bcrypt.  The salt and cost
// are embedded in every hash, so Verify needs nothing but the stored value.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cfg *config.AuthConfig) *PasswordHasher {
	return &PasswordHasher{cost: cfg.BcryptCost}
}

// Hash returns a bcrypt hash of plain using the configured cost.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches hash.  bcrypt compares digests in
// constant time; a malformed hash simply fails.
func (h *PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
