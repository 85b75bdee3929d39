package crypto

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestNanoIDGenerator_New(t *testing.T) {
	tests := []struct {
		name         string
		alphabet     string
		size         int
		wantErr      error
		wantAlphabet string
	}{
		{name: "empty alphabet uses default", alphabet: "", size: DefaultIDSize, wantAlphabet: defaultAlphabet},
		{name: "custom alphabet", alphabet: "ABCDEFGH", size: 10, wantAlphabet: "ABCDEFGH"},
		{name: "alphabet too long", alphabet: strings.Repeat("a", 256), size: 10, wantErr: ErrAlphabetTooLong},
		{name: "alphabet too short", alphabet: "abc", size: 10, wantErr: ErrAlphabetTooShort},
		{name: "duplicate characters", alphabet: "aabcdefgh", size: 10, wantErr: ErrAlphabetDuplicate},
		{name: "non ascii", alphabet: "abcdefgé", size: 10, wantErr: ErrAlphabetNotASCII},
		{name: "zero size", alphabet: "", size: 0, wantErr: ErrInvalidIDSize},
		{name: "negative size", alphabet: "", size: -5, wantErr: ErrInvalidIDSize},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Act
			nanoid, err := NewNanoID(test.alphabet, test.size)

			// Assert
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("NewNanoID() error = %v, want %v", err, test.wantErr)
			}
			if test.wantErr != nil {
				return
			}
			if nanoid.alphabet != test.wantAlphabet {
				t.Errorf("NewNanoID() alphabet = %q, want %q", nanoid.alphabet, test.wantAlphabet)
			}
		})
	}
}

func TestMaskFor(t *testing.T) {
	tests := []struct {
		alphabetLen int
		wantMask    byte
	}{
		{alphabetLen: 8, wantMask: 7},
		{alphabetLen: 9, wantMask: 15},
		{alphabetLen: 16, wantMask: 15},
		{alphabetLen: 17, wantMask: 31},
		{alphabetLen: 64, wantMask: 63},
		{alphabetLen: 65, wantMask: 127},
		{alphabetLen: 255, wantMask: 255},
	}

	for _, test := range tests {
		got := maskFor(test.alphabetLen)
		if got != test.wantMask {
			t.Errorf("maskFor(%d) = %d, want %d", test.alphabetLen, got, test.wantMask)
		}
		if (got+1)&got != 0 && got != 255 {
			t.Errorf("maskFor(%d) = %d is not (power of 2 - 1)", test.alphabetLen, got)
		}
		if int(got) < test.alphabetLen-1 {
			t.Errorf("maskFor(%d) = %d does not cover every index", test.alphabetLen, got)
		}
	}
}

func TestNanoIDGenerate_LengthAndAlphabet(t *testing.T) {
	tests := []struct {
		name     string
		alphabet string
		size     int
	}{
		{name: "default", alphabet: "", size: DefaultIDSize},
		{name: "hex", alphabet: "0123456789abcdef", size: 32},
		{name: "minimum alphabet", alphabet: "ABCDEFGH", size: 50},
		{name: "odd alphabet", alphabet: "abcdefghijk", size: 7},
		{name: "single character", alphabet: "", size: 1},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			nanoid, err := NewNanoID(test.alphabet, test.size)
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i < 50; i++ {
				// Act
				id, err := nanoid.Generate()

				// Assert
				if err != nil {
					t.Fatalf("Generate() error = %v", err)
				}
				if len(id) != test.size {
					t.Fatalf("len(Generate()) = %d, want %d", len(id), test.size)
				}
				for _, c := range id {
					if !strings.ContainsRune(nanoid.alphabet, c) {
						t.Fatalf("Generate() produced %q outside the alphabet", c)
					}
				}
				if !nanoid.Valid(id) {
					t.Fatalf("Valid(%q) should accept a generated id", id)
				}
			}
		})
	}
}

func TestNanoIDValid(t *testing.T) {
	nanoid, err := NewNanoID("", DefaultIDSize)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "well formed", id: strings.Repeat("A", DefaultIDSize), want: true},
		{name: "url safe symbols", id: "abc_def-ghi0123456789Z", want: true},
		{name: "too short", id: "abc", want: false},
		{name: "too long", id: strings.Repeat("A", DefaultIDSize+1), want: false},
		{name: "empty", id: "", want: false},
		{name: "outside alphabet", id: strings.Repeat("A", DefaultIDSize-1) + "/", want: false},
		{name: "object id", id: "507f1f77bcf86cd799439011", want: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := nanoid.Valid(test.id); got != test.want {
				t.Errorf("Valid(%q) = %v, want %v", test.id, got, test.want)
			}
		})
	}
}

func TestNanoIDGenerateUniqueness(t *testing.T) {
	nanoid, _ := NewNanoID("", DefaultIDSize)
	seen := make(map[string]bool)

	for i := 0; i < 10000; i++ {
		id, err := nanoid.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestNanoIDGenerateCharacterDistribution(t *testing.T) {
	alphabet := "ABCDEFGHIJ"
	nanoid, _ := NewNanoID(alphabet, 100)
	counts := make(map[rune]int)

	const rounds = 200
	for i := 0; i < rounds; i++ {
		id, _ := nanoid.Generate()
		for _, c := range id {
			counts[c]++
		}
	}

	expected := rounds * 100 / len(alphabet)
	for _, c := range alphabet {
		got := counts[c]
		if got < expected*8/10 || got > expected*12/10 {
			t.Errorf("character %q appeared %d times, want about %d", c, got, expected)
		}
	}
}

func TestNanoIDGenerateConcurrency(t *testing.T) {
	nanoid, _ := NewNanoID("", DefaultIDSize)

	const goroutines = 8
	const perGoroutine = 500

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup

	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id, err := nanoid.Generate()
				if err != nil {
					t.Error(err)
					return
				}
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != goroutines*perGoroutine {
		t.Errorf("generated %d unique ids, want %d", len(seen), goroutines*perGoroutine)
	}
}

func BenchmarkNanoIDGenerate(b *testing.B) {
	nanoid, _ := NewNanoID("", DefaultIDSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = nanoid.Generate()
	}
}

func FuzzNanoIDValid(f *testing.F) {
	f.Add("")
	f.Add(strings.Repeat("A", DefaultIDSize))
	f.Add("507f1f77bcf86cd799439011")

	nanoid, _ := NewNanoID("", DefaultIDSize)
	f.Fuzz(func(t *testing.T, id string) {
		if !nanoid.Valid(id) {
			return
		}
		if len(id) != DefaultIDSize {
			t.Fatalf("Valid accepted %q of length %d", id, len(id))
		}
	})
}
