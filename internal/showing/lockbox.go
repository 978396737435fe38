package showing

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

const codeSpace = 1_000_000

// CodeGenerator returns a 6-digit lockbox code.
type CodeGenerator func() (string, error)

// RandomCode draws a code uniformly from 000000-999999 using crypto/rand.
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("reading random: %w", err)
	}
	return formatCode(n.Int64()), nil
}

// NewSeededCodes returns a deterministic generator, for tests and demos.
func NewSeededCodes(seed uint64) CodeGenerator {
	var mu sync.Mutex
	r := mrand.New(mrand.NewPCG(seed, seed))
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		return formatCode(r.Int64N(codeSpace)), nil
	}
}

func formatCode(n int64) string {
	return fmt.Sprintf("%06d", n)
}
