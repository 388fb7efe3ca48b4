// Package pcg implements the 32-bit permuted congruential generator (PCG32)
// from the published reference design (pcg-random.org, minimal C version).
//
// The generator is deterministic given its 128-bit seed (64-bit initial
// state plus 64-bit stream selector), which makes it the right tool for
// reproducible synthetic test traces. It is not cryptographically secure.
package pcg

const multiplier = 0x5851f42d4c957f2d

// Pcg32 is a PCG-XSH-RR generator with 64 bits of state and a 63-bit
// selectable output stream.
type Pcg32 struct {
	state uint64
	inc   uint64
}

// New seeds a generator from an initial state and a stream index, following
// the reference pcg32_srandom sequence.
func New(initState, initSeq uint64) *Pcg32 {
	p := &Pcg32{}
	p.Seed(initState, initSeq)
	return p
}

// Seed resets the generator to the given initial state and stream index.
func (p *Pcg32) Seed(initState, initSeq uint64) {
	p.state = 0
	p.inc = initSeq<<1 | 1
	p.Uint32()
	p.state += initState
	p.Uint32()
}

// Uint32 returns the next 32-bit output.
func (p *Pcg32) Uint32() uint32 {
	old := p.state
	p.state = old*multiplier + p.inc
	xorShifted := uint32(((old >> 18) ^ old) >> 27)
	rot := uint32(old >> 59)
	return xorShifted>>rot | xorShifted<<((-rot)&31)
}

// IntN returns a uniformly distributed int in [0, n). n must be positive.
//
// Debiasing follows the reference bounded-generation loop: reject outputs
// below 2^32 mod n.
func (p *Pcg32) IntN(n int) int {
	if n <= 0 {
		panic("pcg: IntN bound must be positive")
	}

	bound := uint32(n)
	threshold := -bound % bound
	for {
		r := p.Uint32()
		if r >= threshold {
			return int(r % bound)
		}
	}
}

// Float64 returns a uniformly distributed float64 in [0, 1).
func (p *Pcg32) Float64() float64 {
	return float64(p.Uint32()) / (1 << 32)
}
