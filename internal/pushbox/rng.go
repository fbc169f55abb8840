package pushbox

// RNG is a deterministic pseudo-random number generator (xorshift64).
// Every stage of generation owns its own RNG so a level is fully
// determined by its seeds.
type RNG struct {
	state uint64
}

// NewRNG creates a generator. The seed is mixed with splitmix64 so small
// neighbouring seeds produce unrelated streams.
func NewRNG(seed uint64) *RNG {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	if z == 0 {
		z = 88172645463325252
	}
	return &RNG{state: z}
}

// Next returns the next random uint64.
func (r *RNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Uint32 returns the upper 32 bits of the next value.
func (r *RNG) Uint32() uint32 {
	return uint32(r.Next() >> 32)
}

// Float returns a random float64 in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	// Values below limit would over-represent small residues.
	bound := uint64(n)
	limit := -bound % bound
	for {
		v := r.Next()
		if v >= limit {
			return int(v % bound)
		}
	}
}

// IntRange returns a random int in [lo, hi]. It returns lo when hi < lo.
func (r *RNG) IntRange(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// Bernoulli returns true with probability p.
func (r *RNG) Bernoulli(p float64) bool {
	return r.Float() < p
}

// Shuffle permutes n elements with swap, Fisher-Yates from the back.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, r.IntN(i+1))
	}
}
