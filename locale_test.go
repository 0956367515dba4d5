package lottery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLocaleSelector(t *testing.T) {
	s := NewLocaleSelector(language.English)

	tests := []struct {
		country string
		want    language.Tag
	}{
		{"KR", language.Korean},
		{"JP", language.Japanese},
		{"DE", language.German},
		{"FR", language.French},
		{"ES", language.Spanish},
		{"IT", language.Italian},
		{"BR", language.Portuguese},
		{"VIKING", language.Swedish},
		{"kr", language.Korean},
		{"US", language.English},
		{"ZA", language.English},
		{"", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.want, s.ForCountry(tt.country))
		})
	}

	assert.Equal(t, language.French, NewLocaleSelector(language.French).ForCountry("US"))
}

func TestTranslator(t *testing.T) {
	tr, err := NewTranslator()
	require.NoError(t, err)

	t.Run("every_language_has_every_key", func(t *testing.T) {
		english := translations[language.English]
		for _, tag := range SupportedLanguages {
			table, ok := translations[tag]
			require.True(t, ok, "missing table for %s", tag)
			for key := range english {
				assert.NotEmpty(t, table[key], "%s: missing %s", tag, key)
			}
		}
	})

	t.Run("korean", func(t *testing.T) {
		loc := tr.Localizer(language.Korean)
		assert.Equal(t, language.Korean, loc.Tag())
		assert.Equal(t, "추첨 결과", loc.T(KeyResultTitle))
		assert.Equal(t, "룰렛", loc.T(ModeRoulette.LabelKey()))
	})

	t.Run("regional_variant_matches_base", func(t *testing.T) {
		loc := tr.Localizer(language.MustParse("de-AT"))
		assert.Equal(t, "Teilen", loc.T(KeyButtonShare))
	})

	t.Run("unsupported_falls_back_to_english", func(t *testing.T) {
		loc := tr.Localizer(language.MustParse("tlh"))
		assert.Equal(t, language.English, loc.Tag())
		assert.Equal(t, "Reset", loc.T(KeyButtonReset))
	})

	t.Run("unknown_key_returns_key", func(t *testing.T) {
		loc := tr.Localizer(language.English)
		assert.Equal(t, "buttons.nothing", loc.T("buttons.nothing"))
	})

	t.Run("mode_action_keys", func(t *testing.T) {
		loc := tr.Localizer(language.English)
		assert.Equal(t, "Draw", loc.T(ModeLottery.ActionKey()))
		assert.Equal(t, "Spin", loc.T(ModeRoulette.ActionKey()))
		assert.Equal(t, "Pull", loc.T(ModeSlot.ActionKey()))
	})

	t.Run("localizers_are_independent", func(t *testing.T) {
		ko := tr.Localizer(language.Korean)
		ja := tr.Localizer(language.Japanese)
		assert.Equal(t, "닫기", ko.T(KeyButtonClose))
		assert.Equal(t, "閉じる", ja.T(KeyButtonClose))
	})
}
