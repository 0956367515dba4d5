package lottery

import (
	"fmt"
	"slices"
)

// NumberRule describes one group of drawn numbers: Count distinct values from [Min, Max]
type NumberRule struct {
	Min   int `json:"min" yaml:"min"`
	Max   int `json:"max" yaml:"max"`
	Count int `json:"count" yaml:"count"`
}

// Cardinality returns how many distinct values the range holds
func (r NumberRule) Cardinality() int {
	return r.Max - r.Min + 1
}

// Contains reports whether n lies within [Min, Max]
func (r NumberRule) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// Validate checks the rule can be drawn without replacement
func (r NumberRule) Validate() error {
	return ValidateDraw(r.Min, r.Max, r.Count)
}

// GameProfile is the static configuration of one lottery game
type GameProfile struct {
	ID           string      `json:"id" yaml:"id"`
	CountryCode  string      `json:"country_code" yaml:"country_code"`
	CountryName  string      `json:"country_name" yaml:"country_name"`
	GameName     string      `json:"game_name" yaml:"game_name"`
	MainNumbers  NumberRule  `json:"main_numbers" yaml:"main_numbers"`
	BonusNumbers *NumberRule `json:"bonus_numbers,omitempty" yaml:"bonus_numbers,omitempty"`
}

// HasBonus reports whether the game draws a bonus group
func (g GameProfile) HasBonus() bool {
	return g.BonusNumbers != nil
}

// TotalRequired is the number of reveals needed to complete one draw
func (g GameProfile) TotalRequired() int {
	total := g.MainNumbers.Count
	if g.BonusNumbers != nil {
		total += g.BonusNumbers.Count
	}
	return total
}

// DisplayName is "<flag> <country> - <game>"
func (g GameProfile) DisplayName() string {
	return fmt.Sprintf("%s %s - %s", FlagEmoji(g.CountryCode), g.CountryName, g.GameName)
}

// Validate reports a configuration error when a rule cannot terminate
func (g GameProfile) Validate() error {
	if g.ID == "" {
		return ErrInvalidProfile.WithDetails("empty id")
	}
	if g.GameName == "" {
		return ErrInvalidProfile.WithDetails(fmt.Sprintf("game %q: empty name", g.ID))
	}
	if err := g.MainNumbers.Validate(); err != nil {
		return ErrInvalidProfile.WithDetails(fmt.Sprintf("game %q main numbers", g.ID)).WithCause(err)
	}
	if g.BonusNumbers != nil {
		if err := g.BonusNumbers.Validate(); err != nil {
			return ErrInvalidProfile.WithDetails(fmt.Sprintf("game %q bonus numbers", g.ID)).WithCause(err)
		}
	}
	return nil
}

// clone deep-copies the bonus rule so catalog entries stay immutable
func (g GameProfile) clone() GameProfile {
	if g.BonusNumbers != nil {
		b := *g.BonusNumbers
		g.BonusNumbers = &b
	}
	return g
}

// GeneratedNumbers is one finished (or in-progress) draw
type GeneratedNumbers struct {
	MainNumbers  []int `json:"main_numbers"`
	BonusNumbers []int `json:"bonus_numbers,omitempty"`
}

// Total returns the combined count of main and bonus numbers
func (gn GeneratedNumbers) Total() int {
	return len(gn.MainNumbers) + len(gn.BonusNumbers)
}

// Sorted returns a copy with both groups in ascending order.
// An empty bonus group becomes nil.
func (gn GeneratedNumbers) Sorted() GeneratedNumbers {
	out := GeneratedNumbers{MainNumbers: slices.Clone(gn.MainNumbers)}
	slices.Sort(out.MainNumbers)
	if len(gn.BonusNumbers) > 0 {
		out.BonusNumbers = slices.Clone(gn.BonusNumbers)
		slices.Sort(out.BonusNumbers)
	}
	return out
}

// Validate checks the numbers against a game's rules
func (gn GeneratedNumbers) Validate(game GameProfile) error {
	if err := validateGroup(gn.MainNumbers, game.MainNumbers); err != nil {
		return fmt.Errorf("main numbers: %w", err)
	}
	if game.BonusNumbers == nil {
		if len(gn.BonusNumbers) > 0 {
			return ErrInvalidParameters.WithDetails("bonus numbers for a game without bonus")
		}
		return nil
	}
	if err := validateGroup(gn.BonusNumbers, *game.BonusNumbers); err != nil {
		return fmt.Errorf("bonus numbers: %w", err)
	}
	return nil
}

func validateGroup(nums []int, rule NumberRule) error {
	if len(nums) != rule.Count {
		return ErrInvalidCount.WithDetails(fmt.Sprintf("got %d numbers, want %d", len(nums), rule.Count))
	}
	seen := make(map[int]struct{}, len(nums))
	for _, n := range nums {
		if !rule.Contains(n) {
			return ErrInvalidRange.WithDetails(fmt.Sprintf("%d outside [%d, %d]", n, rule.Min, rule.Max))
		}
		if _, dup := seen[n]; dup {
			return ErrInvalidParameters.WithDetails(fmt.Sprintf("duplicate number %d", n))
		}
		seen[n] = struct{}{}
	}
	return nil
}
