// Package invite generates group invitation codes.
package invite

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of decimal digits in an invitation code.
const CodeLength = 6

// NewCode returns a random six-digit invitation code in [100000, 999999].
// Codes are opaque tokens; uniqueness across groups is enforced by the
// caller against storage.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to read randomness: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}
