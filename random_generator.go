package lottery

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"
)

// RandomSource produces uniform floats in [0, 1)
type RandomSource interface {
	GenerateFloat() (float64, error)
}

// SecureRandomGenerator implements secure random number generation using crypto/rand with caching
type SecureRandomGenerator struct {
	cache      []float64
	cacheSize  int
	cacheIndex int
	cacheMtx   sync.Mutex
}

// NewSecureRandomGenerator creates a new cached secure random generator.
//
// If no cache size is provided, or it is not positive, the default cache size is used.
func NewSecureRandomGenerator(cacheSize ...int) *SecureRandomGenerator {
	size := DefaultFastRandomGeneratorCacheSize
	if len(cacheSize) > 0 && cacheSize[0] > 0 {
		size = cacheSize[0]
	}

	return &SecureRandomGenerator{
		cache:      make([]float64, size),
		cacheSize:  size,
		cacheIndex: size, // empty; first call fills it
	}
}

// refillCache refills the random number cache. Caller holds cacheMtx.
func (g *SecureRandomGenerator) refillCache() error {
	for i := range g.cacheSize {
		val, err := generateFloat()
		if err != nil {
			return ErrRandomSource.WithCause(err)
		}
		g.cache[i] = val
	}

	g.cacheIndex = 0
	return nil
}

// GenerateFloat returns a secure random float in [0, 1)
func (g *SecureRandomGenerator) GenerateFloat() (float64, error) {
	g.cacheMtx.Lock()
	defer g.cacheMtx.Unlock()

	if g.cacheIndex >= g.cacheSize {
		if err := g.refillCache(); err != nil {
			return 0, err
		}
	}

	result := g.cache[g.cacheIndex]
	g.cacheIndex++
	return result, nil
}

// GenerateInRange generates a secure random number within [min, max] (inclusive)
func (g *SecureRandomGenerator) GenerateInRange(min, max int) (int, error) {
	return generateInRange(g, min, max)
}

// generateFloat generates a secure random float between 0 and 1 (exclusive of 1)
func generateFloat() (float64, error) {
	randomBig, err := rand.Int(rand.Reader, big.NewInt(1<<53)) // 53 bits of mantissa
	if err != nil {
		return 0, err
	}
	return float64(randomBig.Int64()) / float64(1<<53), nil
}

// SeededRandomGenerator is a deterministic RandomSource for reproducible demos and tests.
// Not suitable where unpredictability matters.
type SeededRandomGenerator struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededRandomGenerator creates a PCG-backed generator from a seed
func NewSeededRandomGenerator(seed uint64) *SeededRandomGenerator {
	return &SeededRandomGenerator{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// GenerateFloat returns a float in [0, 1)
func (g *SeededRandomGenerator) GenerateFloat() (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64(), nil
}

// GenerateInRange generates a number within [min, max] (inclusive)
func (g *SeededRandomGenerator) GenerateInRange(min, max int) (int, error) {
	return generateInRange(g, min, max)
}

// generateInRange scales one float from src to [min, max]:
// floor(u * (max-min+1)) + min.
func generateInRange(src RandomSource, min, max int) (int, error) {
	if min > max {
		return 0, ErrInvalidRange
	}
	if min == max {
		return min, nil
	}

	u, err := src.GenerateFloat()
	if err != nil {
		return 0, err
	}

	rangeSize := max - min + 1
	result := int(u*float64(rangeSize)) + min

	// float rounding can land exactly on rangeSize
	if result > max {
		result = max
	}
	return result, nil
}
