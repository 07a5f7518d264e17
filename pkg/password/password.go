package password

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the work factor used when none is configured.
const DefaultCost = 10

var hashPattern = regexp.MustCompile(`^\$2[aby]\$.{56}$`)

var ErrEmptyPassword = errors.New("password is empty")

// Hasher turns plaintext secrets into one-way hashes and checks them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcrypt returns a Hasher using bcrypt at the given cost. Out of range
// costs fall back to DefaultCost.
func NewBcrypt(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A malformed hash never matches.
func (h *bcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsHashed reports whether stored looks like a bcrypt hash ($2a$, $2b$ or $2y$
// prefix followed by 56 characters). Anything else is treated as legacy plaintext.
func IsHashed(stored string) bool {
	return hashPattern.MatchString(stored)
}
