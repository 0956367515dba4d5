package lottery

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultGameID is the profile selected when nothing else is requested
const DefaultGameID = "kr-lotto645"

func rule(min, max, count int) NumberRule { return NumberRule{Min: min, Max: max, Count: count} }

func bonus(min, max, count int) *NumberRule {
	r := rule(min, max, count)
	return &r
}

// builtinGames is the static profile list. Every entry satisfies count <= max-min+1.
var builtinGames = []GameProfile{
	{ID: "us-powerball", CountryCode: "US", CountryName: "USA", GameName: "Powerball",
		MainNumbers: rule(1, 69, 5), BonusNumbers: bonus(1, 26, 1)},
	{ID: "us-megamillions", CountryCode: "US", CountryName: "USA", GameName: "Mega Millions",
		MainNumbers: rule(1, 70, 5), BonusNumbers: bonus(1, 24, 1)},
	{ID: "eu-euromillions", CountryCode: "EU", CountryName: "Europe", GameName: "EuroMillions",
		MainNumbers: rule(1, 50, 5), BonusNumbers: bonus(1, 12, 2)},
	{ID: "eu-eurojackpot", CountryCode: "EU", CountryName: "Europe", GameName: "Eurojackpot",
		MainNumbers: rule(1, 50, 5), BonusNumbers: bonus(1, 12, 2)},
	{ID: "uk-lotto", CountryCode: "UK", CountryName: "United Kingdom", GameName: "Lotto",
		MainNumbers: rule(1, 59, 6)},
	{ID: "de-lotto6aus49", CountryCode: "DE", CountryName: "Deutschland", GameName: "Lotto 6aus49",
		MainNumbers: rule(1, 49, 6), BonusNumbers: bonus(0, 9, 1)},
	{ID: "it-superenalotto", CountryCode: "IT", CountryName: "Italia", GameName: "SuperEnalotto",
		MainNumbers: rule(1, 90, 6)},
	{ID: "es-primitiva", CountryCode: "ES", CountryName: "España", GameName: "La Primitiva",
		MainNumbers: rule(1, 49, 6), BonusNumbers: bonus(0, 9, 1)},
	{ID: "fr-loto", CountryCode: "FR", CountryName: "France", GameName: "Loto",
		MainNumbers: rule(1, 49, 5), BonusNumbers: bonus(1, 10, 1)},
	{ID: "ca-lotto649", CountryCode: "CA", CountryName: "Canada", GameName: "Lotto 6/49",
		MainNumbers: rule(1, 49, 6)},
	{ID: "br-megasena", CountryCode: "BR", CountryName: "Brasil", GameName: "Mega-Sena",
		MainNumbers: rule(1, 60, 6)},
	{ID: "au-ozlotto", CountryCode: "AU", CountryName: "Australia", GameName: "Oz Lotto",
		MainNumbers: rule(1, 47, 7)},
	{ID: "au-powerball", CountryCode: "AU", CountryName: "Australia", GameName: "Powerball",
		MainNumbers: rule(1, 35, 7), BonusNumbers: bonus(1, 20, 1)},
	{ID: "jp-loto6", CountryCode: "JP", CountryName: "日本", GameName: "ロト6",
		MainNumbers: rule(1, 43, 6)},
	{ID: "viking-lotto", CountryCode: "VIKING", CountryName: "Nordic", GameName: "Vikinglotto",
		MainNumbers: rule(1, 48, 6), BonusNumbers: bonus(1, 5, 1)},
	{ID: "za-lotto", CountryCode: "ZA", CountryName: "South Africa", GameName: "Lotto",
		MainNumbers: rule(1, 58, 6)},
	{ID: "nz-lotto", CountryCode: "NZ", CountryName: "New Zealand", GameName: "Lotto Powerball",
		MainNumbers: rule(1, 40, 6), BonusNumbers: bonus(1, 10, 1)},
	{ID: DefaultGameID, CountryCode: "KR", CountryName: "대한민국", GameName: "로또 6/45",
		MainNumbers: rule(1, 45, 6)},
}

var flags = map[string]string{
	"US":     "🇺🇸",
	"EU":     "🇪🇺",
	"UK":     "🇬🇧",
	"DE":     "🇩🇪",
	"IT":     "🇮🇹",
	"ES":     "🇪🇸",
	"FR":     "🇫🇷",
	"CA":     "🇨🇦",
	"BR":     "🇧🇷",
	"AU":     "🇦🇺",
	"JP":     "🇯🇵",
	"VIKING": "🇳🇴",
	"KR":     "🇰🇷",
	"ZA":     "🇿🇦",
	"NZ":     "🇳🇿",
}

// FlagEmoji returns the flag for a country code, or a globe when unknown
func FlagEmoji(countryCode string) string {
	if f, ok := flags[countryCode]; ok {
		return f
	}
	return "🌍"
}

// Catalog is an immutable, validated list of game profiles
type Catalog struct {
	games     []GameProfile
	index     map[string]int
	defaultID string
}

// NewCatalog validates profiles and builds a catalog. The default profile is
// DefaultGameID when present, otherwise the first entry.
func NewCatalog(profiles ...GameProfile) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, ErrInvalidProfile.WithDetails("catalog is empty")
	}

	c := &Catalog{
		games: make([]GameProfile, 0, len(profiles)),
		index: make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, ErrDuplicateGame.WithDetails(p.ID)
		}
		c.index[p.ID] = len(c.games)
		c.games = append(c.games, p.clone())
	}

	c.defaultID = c.games[0].ID
	if _, ok := c.index[DefaultGameID]; ok {
		c.defaultID = DefaultGameID
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(builtinGames...)
	if err != nil {
		// builtinGames is covered by tests
		panic(fmt.Sprintf("builtin catalog invalid: %v", err))
	}
	return c
}

// List returns a copy of all profiles in catalog order
func (c *Catalog) List() []GameProfile {
	out := make([]GameProfile, len(c.games))
	for i, g := range c.games {
		out[i] = g.clone()
	}
	return out
}

// Len returns the number of profiles
func (c *Catalog) Len() int { return len(c.games) }

// Find returns the profile with the given id
func (c *Catalog) Find(id string) (GameProfile, error) {
	i, ok := c.index[id]
	if !ok {
		return GameProfile{}, ErrGameNotFound.WithDetails(id)
	}
	return c.games[i].clone(), nil
}

// Default returns the default profile
func (c *Catalog) Default() GameProfile {
	g, _ := c.Find(c.defaultID)
	return g
}

// catalogFile is the YAML layout accepted by LoadCatalogYAML
type catalogFile struct {
	Default string        `yaml:"default"`
	Games   []GameProfile `yaml:"games"`
}

// LoadCatalogYAML reads profiles from YAML:
//
//	default: kr-lotto645
//	games:
//	  - id: kr-lotto645
//	    country_code: KR
//	    ...
//	    main_numbers: {min: 1, max: 45, count: 6}
func LoadCatalogYAML(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, ErrDeserializationFailed.WithDetails("catalog yaml").WithCause(err)
	}

	c, err := NewCatalog(f.Games...)
	if err != nil {
		return nil, err
	}
	if f.Default != "" {
		if _, ok := c.index[f.Default]; !ok {
			return nil, ErrGameNotFound.WithDetails(fmt.Sprintf("default %q", f.Default))
		}
		c.defaultID = f.Default
	}
	return c, nil
}

// LoadCatalogFile reads a YAML catalog from path
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	return LoadCatalogYAML(f)
}

// WithDefault returns a copy of the catalog whose default profile is id
func (c *Catalog) WithDefault(id string) (*Catalog, error) {
	if _, ok := c.index[id]; !ok {
		return nil, ErrGameNotFound.WithDetails(id)
	}
	out := *c
	out.defaultID = id
	return &out, nil
}
