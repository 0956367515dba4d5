package lottery

import (
	"fmt"
	"slices"
)

// ValidateRange validates range parameters
func ValidateRange(min, max int) error {
	if min > max {
		return ErrInvalidRange.WithDetails(fmt.Sprintf("min=%d, max=%d", min, max))
	}
	return nil
}

// ValidateCount validates count parameter for multiple draws
func ValidateCount(count int) error {
	if count <= 0 {
		return ErrInvalidCount.WithDetails(fmt.Sprintf("count=%d", count))
	}
	return nil
}

// ValidateDraw checks that count distinct values can be drawn from [min, max]
func ValidateDraw(min, max, count int) error {
	if err := ValidateRange(min, max); err != nil {
		return err
	}
	if err := ValidateCount(count); err != nil {
		return err
	}
	if count > max-min+1 {
		return ErrRangeExhausted.WithDetails(fmt.Sprintf("count=%d, range [%d, %d] holds %d values",
			count, min, max, max-min+1))
	}
	return nil
}

// GenerateUniqueNumbers draws count pairwise distinct integers uniformly from [min, max]
// by rejection sampling. The result is in draw order, not sorted.
func GenerateUniqueNumbers(src RandomSource, min, max, count int) ([]int, error) {
	if err := ValidateDraw(min, max, count); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, count)
	numbers := make([]int, 0, count)
	for len(numbers) < count {
		n, err := generateInRange(src, min, max)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// DrawExcluding draws one integer from [min, max] that is not in exclude
func DrawExcluding(src RandomSource, min, max int, exclude []int) (int, error) {
	if err := ValidateRange(min, max); err != nil {
		return 0, err
	}

	blocked := make(map[int]struct{}, len(exclude))
	for _, n := range exclude {
		if n >= min && n <= max {
			blocked[n] = struct{}{}
		}
	}
	if len(blocked) >= max-min+1 {
		return 0, ErrRangeExhausted.WithDetails(fmt.Sprintf("all %d values in [%d, %d] excluded",
			max-min+1, min, max))
	}

	for {
		n, err := generateInRange(src, min, max)
		if err != nil {
			return 0, err
		}
		if _, hit := blocked[n]; !hit {
			return n, nil
		}
	}
}

// GenerateNumbers draws a full result for game, both groups sorted ascending
func GenerateNumbers(src RandomSource, game GameProfile) (GeneratedNumbers, error) {
	main, err := GenerateUniqueNumbers(src, game.MainNumbers.Min, game.MainNumbers.Max, game.MainNumbers.Count)
	if err != nil {
		return GeneratedNumbers{}, fmt.Errorf("game %s main numbers: %w", game.ID, err)
	}
	slices.Sort(main)

	result := GeneratedNumbers{MainNumbers: main}
	if b := game.BonusNumbers; b != nil {
		bonus, err := GenerateUniqueNumbers(src, b.Min, b.Max, b.Count)
		if err != nil {
			return GeneratedNumbers{}, fmt.Errorf("game %s bonus numbers: %w", game.ID, err)
		}
		slices.Sort(bonus)
		result.BonusNumbers = bonus
	}
	return result, nil
}

// Generator binds a RandomSource to the draw operations
type Generator struct {
	src RandomSource
}

// NewGenerator creates a generator. A nil source selects SecureRandomGenerator.
func NewGenerator(src RandomSource) *Generator {
	if src == nil {
		src = NewSecureRandomGenerator()
	}
	return &Generator{src: src}
}

// Source returns the underlying random source
func (g *Generator) Source() RandomSource { return g.src }

// Unique draws count distinct numbers from [min, max]
func (g *Generator) Unique(min, max, count int) ([]int, error) {
	return GenerateUniqueNumbers(g.src, min, max, count)
}

// Excluding draws one number from [min, max] not in exclude
func (g *Generator) Excluding(min, max int, exclude []int) (int, error) {
	return DrawExcluding(g.src, min, max, exclude)
}

// InRange draws one number from [min, max]
func (g *Generator) InRange(min, max int) (int, error) {
	return generateInRange(g.src, min, max)
}

// Float returns one uniform float in [0, 1)
func (g *Generator) Float() (float64, error) {
	return g.src.GenerateFloat()
}

// Generate draws a sorted full result for game
func (g *Generator) Generate(game GameProfile) (GeneratedNumbers, error) {
	return GenerateNumbers(g.src, game)
}
