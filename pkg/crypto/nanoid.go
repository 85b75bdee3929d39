package crypto

import (
	"crypto/rand"
	"errors"
	"math"
	"strings"
)

const (
	defaultAlphabet string = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	DefaultIDSize   int    = 22 // 22 * 6 = 132 bits of entropy
	maxAlphabetSize int    = 255
	minAlphabetSize int    = 8
)

var (
	ErrAlphabetTooLong   = errors.New("alphabet must contain no more than 255 characters")
	ErrAlphabetTooShort  = errors.New("alphabet must contain at least 8 characters")
	ErrAlphabetNotASCII  = errors.New("alphabet must contain only ASCII characters")
	ErrAlphabetDuplicate = errors.New("alphabet must not repeat characters")
	ErrInvalidIDSize     = errors.New("id size must be positive")
)

// NanoIDGenerator produces fixed-size random ids over an alphabet and
// recognises ids it could have produced.
type NanoIDGenerator struct {
	alphabet string
	size     int
	mask     byte
}

// NewNanoID builds a generator. An empty alphabet selects the URL-safe default.
func NewNanoID(alphabet string, size int) (*NanoIDGenerator, error) {
	if alphabet == "" {
		alphabet = defaultAlphabet
	}
	if size <= 0 {
		return nil, ErrInvalidIDSize
	}
	if len(alphabet) > maxAlphabetSize {
		return nil, ErrAlphabetTooLong
	}
	if len(alphabet) < minAlphabetSize {
		return nil, ErrAlphabetTooShort
	}

	// Generate() and Valid() index by byte position
	seen := make(map[byte]bool, len(alphabet))
	for i := 0; i < len(alphabet); i++ {
		c := alphabet[i]
		if c > 127 {
			return nil, ErrAlphabetNotASCII
		}
		if seen[c] {
			return nil, ErrAlphabetDuplicate
		}
		seen[c] = true
	}

	return &NanoIDGenerator{
		alphabet: alphabet,
		size:     size,
		mask:     maskFor(len(alphabet)),
	}, nil
}

// maskFor returns the smallest all-ones bitmask covering alphabetLen-1
func maskFor(alphabetLen int) byte {
	mask := 1
	for mask < alphabetLen-1 {
		mask = mask<<1 | 1
	}
	return byte(mask)
}

func (n *NanoIDGenerator) Generate() (string, error) {
	alphabetLen := len(n.alphabet)
	step := int(math.Ceil(1.6 * float64(int(n.mask)*n.size) / float64(alphabetLen)))

	id := make([]byte, n.size)
	buffer := make([]byte, step)

	for position := 0; position < n.size; {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}

		// Rejection sampling keeps the distribution uniform
		for i := 0; i < step && position < n.size; i++ {
			index := buffer[i] & n.mask
			if int(index) < alphabetLen {
				id[position] = n.alphabet[index]
				position++
			}
		}
	}

	return string(id), nil
}

// Valid reports whether id has the generator's size and alphabet
func (n *NanoIDGenerator) Valid(id string) bool {
	if len(id) != n.size {
		return false
	}
	for i := 0; i < len(id); i++ {
		if !strings.ContainsRune(n.alphabet, rune(id[i])) {
			return false
		}
	}
	return true
}
