package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MinHashCost is the lowest bcrypt cost accepted for stored passwords.
const MinHashCost = bcrypt.DefaultCost

// Hasher 对密码做加盐的自适应哈希
type Hasher struct {
	cost int
}

// NewHasher creates a bcrypt hasher. A zero cost selects bcrypt.DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < MinHashCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("password hash cost must be between %d and %d, got %d", MinHashCost, bcrypt.MaxCost, cost)
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured bcrypt cost.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash 对明文密码进行哈希处理
func (h *Hasher) Hash(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password must not be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify 验证密码是否与存储的哈希值匹配
//
// A mismatch yields (false, nil). A digest that cannot be checked at all
// yields an error, so callers can tell a broken record from a wrong password.
func (h *Hasher) Verify(password, hash string) (bool, error) {
	if strings.TrimSpace(hash) == "" {
		return false, errors.New("stored password hash is empty")
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify password hash: %w", err)
	}
}
