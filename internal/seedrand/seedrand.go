// Package seedrand provides a small deterministic PRNG seeded from a string.
//
// The same seed string always produces the same float sequence, across
// processes and platforms. This is what lets every client derive the same
// mission set for a given day without the server assigning anything: the
// calendar date is the seed, the shuffle is the consumer.
package seedrand

// Source is an sfc32 generator. Not safe for concurrent use of a single
// instance; independent Sources are fine.
type Source struct {
	a, b, c, d uint32
}

// New hashes seed into the four 32-bit state words and returns a generator.
func New(seed string) *Source {
	a, b, c, d := hash128(seed)
	return &Source{a: a, b: b, c: c, d: d}
}

// Next advances the generator and returns a float in [0, 1) with 2^32
// granularity.
func (s *Source) Next() float64 {
	t := s.a + s.b
	s.a = s.b ^ (s.b >> 9)
	s.b = s.c + (s.c << 3)
	s.c = (s.c << 21) | (s.c >> 11)
	s.d++
	t += s.d
	s.c += t
	return float64(t) / 4294967296.0
}

// Intn returns a uniform index in [0, n). n must be positive.
func (s *Source) Intn(n int) int {
	return int(s.Next() * float64(n))
}

// hash128 mixes a string into four 32-bit words (cyrb128). Each input byte
// stirs all four accumulators, and the final avalanche rounds make seeds
// differing by one character produce unrelated states.
func hash128(key string) (uint32, uint32, uint32, uint32) {
	h1 := uint32(1779033703)
	h2 := uint32(3144134277)
	h3 := uint32(1013904242)
	h4 := uint32(2773480762)

	for i := 0; i < len(key); i++ {
		k := uint32(key[i])
		h1 = h2 ^ ((h1 ^ k) * 597399067)
		h2 = h3 ^ ((h2 ^ k) * 2869860233)
		h3 = h4 ^ ((h3 ^ k) * 951274213)
		h4 = h1 ^ ((h4 ^ k) * 2716044179)
	}

	h1 = (h3 ^ (h1 >> 18)) * 597399067
	h2 = (h4 ^ (h2 >> 22)) * 2869860233
	h3 = (h1 ^ (h3 >> 17)) * 951274213
	h4 = (h2 ^ (h4 >> 19)) * 2716044179

	return h1 ^ h2 ^ h3 ^ h4, h2 ^ h1, h3 ^ h1, h4 ^ h1
}
