package lottery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays floats in order, wrapping around
type fixedSource struct {
	values []float64
	i      int
}

func (s *fixedSource) GenerateFloat() (float64, error) {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v, nil
}

// failingSource always fails
type failingSource struct{}

func (failingSource) GenerateFloat() (float64, error) {
	return 0, errors.New("entropy unavailable")
}

func TestSecureRandomGenerator(t *testing.T) {
	fastGen := NewSecureRandomGenerator(100)

	t.Run("范围生成正确性", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			result, err := fastGen.GenerateInRange(1, 100)
			require.NoError(t, err)
			require.GreaterOrEqual(t, result, 1)
			require.LessOrEqual(t, result, 100)
		}
	})

	t.Run("浮点生成正确性", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			result, err := fastGen.GenerateFloat()
			require.NoError(t, err)
			require.GreaterOrEqual(t, result, 0.0)
			require.Less(t, result, 1.0)
		}
	})

	t.Run("缓存重填充", func(t *testing.T) {
		// 消耗所有缓存
		for i := 0; i < 150; i++ { // 超过缓存大小
			_, err := fastGen.GenerateFloat()
			require.NoError(t, err)
		}
	})

	t.Run("默认缓存大小", func(t *testing.T) {
		g := NewSecureRandomGenerator(0)
		assert.Equal(t, DefaultFastRandomGeneratorCacheSize, g.cacheSize)
	})
}

func TestSeededRandomGenerator(t *testing.T) {
	a := NewSeededRandomGenerator(42)
	b := NewSeededRandomGenerator(42)

	for i := 0; i < 100; i++ {
		x, err := a.GenerateInRange(1, 45)
		require.NoError(t, err)
		y, err := b.GenerateInRange(1, 45)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestGenerateInRange(t *testing.T) {
	tests := []struct {
		name     string
		u        float64
		min, max int
		want     int
	}{
		{"lower_edge", 0.0, 1, 45, 1},
		{"upper_edge", 0.999999, 1, 45, 45},
		{"middle", 0.5, 1, 10, 6},
		{"negative_range", 0.0, -5, 5, -5},
		{"single_value", 0.7, 7, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := generateInRange(&fixedSource{values: []float64{tt.u}}, tt.min, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid_range", func(t *testing.T) {
		_, err := generateInRange(&fixedSource{values: []float64{0}}, 10, 1)
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("source_error", func(t *testing.T) {
		_, err := generateInRange(failingSource{}, 1, 10)
		assert.Error(t, err)
	})
}
