package sim

// Rand is the random number stream threaded through every rule that needs
// randomness. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// RandomDirection draws one of the four movement directions uniformly
func RandomDirection(rng Rand) Direction {
	return Directions[rng.Intn(len(Directions))]
}

// chance reports whether an event with probability p fires
func chance(rng Rand, p float64) bool {
	return rng.Float64() < p
}
