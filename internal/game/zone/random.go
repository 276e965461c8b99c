package zone

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand/v2"

	"golang.org/x/crypto/chacha20"
)

// Shuffler is the random source used by Shuffle. *math/rand/v2.Rand
// satisfies it.
type Shuffler interface {
	IntN(n int) int
}

// keystreamSource is a math/rand/v2 Source drawing from a chacha20 keystream.
type keystreamSource struct {
	cipher *chacha20.Cipher
	buf    [8]byte
}

func (s *keystreamSource) Uint64() uint64 {
	clear(s.buf[:])
	s.cipher.XORKeyStream(s.buf[:], s.buf[:])
	return binary.LittleEndian.Uint64(s.buf[:])
}

// NewSeededRand returns a deterministic generator for the given seed. Two
// generators created with the same seed produce the same sequence.
func NewSeededRand(seed uint64) *mathrand.Rand {
	var key [chacha20.KeySize]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		// Only reachable with a malformed key or nonce length.
		panic(err)
	}
	return mathrand.New(&keystreamSource{cipher: c})
}

// NewRand returns a generator seeded from crypto/rand.
func NewRand() *mathrand.Rand {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		panic(err)
	}
	return NewSeededRand(binary.LittleEndian.Uint64(seed[:]))
}
