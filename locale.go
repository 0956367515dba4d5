package lottery

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translation keys understood by Translator
const (
	KeyTitle              = "title"
	KeySelectCountry      = "selectCountry"
	KeySelectGenerator    = "selectGenerator"
	KeyGeneratorLottery   = "generatorTypes.lottery"
	KeyGeneratorRoulette  = "generatorTypes.roulette"
	KeyGeneratorSlot      = "generatorTypes.slot"
	KeyButtonDraw         = "buttons.draw"
	KeyButtonSpin         = "buttons.spin"
	KeyButtonPull         = "buttons.pull"
	KeyButtonReset        = "buttons.reset"
	KeyButtonShare        = "buttons.share"
	KeyButtonClose        = "buttons.close"
	KeyResultTitle        = "result.title"
	KeyResultMainNumbers  = "result.mainNumbers"
	KeyResultBonusNumbers = "result.bonusNumbers"
	KeyResultComplete     = "result.complete"
	KeyResultCopied       = "result.copied"
)

// SupportedLanguages lists the languages with a translation table; English first.
var SupportedLanguages = []language.Tag{
	language.English,
	language.Korean,
	language.Japanese,
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Portuguese,
	language.Dutch,
	language.Swedish,
}

var translations = map[language.Tag]map[string]string{
	language.English: {
		KeyTitle: "Lucky Number Picker", KeySelectCountry: "Select lottery", KeySelectGenerator: "Select generator",
		KeyGeneratorLottery: "Lottery machine", KeyGeneratorRoulette: "Roulette", KeyGeneratorSlot: "Slot machine",
		KeyButtonDraw: "Draw", KeyButtonSpin: "Spin", KeyButtonPull: "Pull", KeyButtonReset: "Reset",
		KeyButtonShare: "Share", KeyButtonClose: "Close",
		KeyResultTitle: "Your numbers", KeyResultMainNumbers: "Main numbers", KeyResultBonusNumbers: "Bonus numbers",
		KeyResultComplete: "Complete!", KeyResultCopied: "Copied to clipboard!",
	},
	language.Korean: {
		KeyTitle: "행운의 번호 뽑기", KeySelectCountry: "로또 선택", KeySelectGenerator: "생성기 선택",
		KeyGeneratorLottery: "로또 추첨기", KeyGeneratorRoulette: "룰렛", KeyGeneratorSlot: "슬롯머신",
		KeyButtonDraw: "추첨", KeyButtonSpin: "돌리기", KeyButtonPull: "당기기", KeyButtonReset: "다시하기",
		KeyButtonShare: "공유", KeyButtonClose: "닫기",
		KeyResultTitle: "추첨 결과", KeyResultMainNumbers: "당첨 번호", KeyResultBonusNumbers: "보너스 번호",
		KeyResultComplete: "완료!", KeyResultCopied: "클립보드에 복사되었습니다!",
	},
	language.Japanese: {
		KeyTitle: "ラッキーナンバー", KeySelectCountry: "宝くじを選択", KeySelectGenerator: "ジェネレーターを選択",
		KeyGeneratorLottery: "抽選機", KeyGeneratorRoulette: "ルーレット", KeyGeneratorSlot: "スロット",
		KeyButtonDraw: "抽選", KeyButtonSpin: "回す", KeyButtonPull: "引く", KeyButtonReset: "リセット",
		KeyButtonShare: "共有", KeyButtonClose: "閉じる",
		KeyResultTitle: "抽選結果", KeyResultMainNumbers: "本数字", KeyResultBonusNumbers: "ボーナス数字",
		KeyResultComplete: "完了!", KeyResultCopied: "クリップボードにコピーしました!",
	},
	language.German: {
		KeyTitle: "Glückszahlen-Generator", KeySelectCountry: "Lotterie wählen", KeySelectGenerator: "Generator wählen",
		KeyGeneratorLottery: "Ziehungsgerät", KeyGeneratorRoulette: "Roulette", KeyGeneratorSlot: "Spielautomat",
		KeyButtonDraw: "Ziehen", KeyButtonSpin: "Drehen", KeyButtonPull: "Hebel ziehen", KeyButtonReset: "Zurücksetzen",
		KeyButtonShare: "Teilen", KeyButtonClose: "Schließen",
		KeyResultTitle: "Deine Zahlen", KeyResultMainNumbers: "Gewinnzahlen", KeyResultBonusNumbers: "Superzahl",
		KeyResultComplete: "Fertig!", KeyResultCopied: "In die Zwischenablage kopiert!",
	},
	language.French: {
		KeyTitle: "Générateur de numéros", KeySelectCountry: "Choisir la loterie", KeySelectGenerator: "Choisir le générateur",
		KeyGeneratorLottery: "Machine de tirage", KeyGeneratorRoulette: "Roulette", KeyGeneratorSlot: "Machine à sous",
		KeyButtonDraw: "Tirer", KeyButtonSpin: "Tourner", KeyButtonPull: "Tirer le levier", KeyButtonReset: "Réinitialiser",
		KeyButtonShare: "Partager", KeyButtonClose: "Fermer",
		KeyResultTitle: "Vos numéros", KeyResultMainNumbers: "Numéros", KeyResultBonusNumbers: "Numéro chance",
		KeyResultComplete: "Terminé !", KeyResultCopied: "Copié dans le presse-papiers !",
	},
	language.Spanish: {
		KeyTitle: "Generador de números", KeySelectCountry: "Elegir lotería", KeySelectGenerator: "Elegir generador",
		KeyGeneratorLottery: "Bombo", KeyGeneratorRoulette: "Ruleta", KeyGeneratorSlot: "Tragaperras",
		KeyButtonDraw: "Sortear", KeyButtonSpin: "Girar", KeyButtonPull: "Tirar", KeyButtonReset: "Reiniciar",
		KeyButtonShare: "Compartir", KeyButtonClose: "Cerrar",
		KeyResultTitle: "Tus números", KeyResultMainNumbers: "Números", KeyResultBonusNumbers: "Reintegro",
		KeyResultComplete: "¡Completado!", KeyResultCopied: "¡Copiado al portapapeles!",
	},
	language.Italian: {
		KeyTitle: "Generatore di numeri", KeySelectCountry: "Scegli la lotteria", KeySelectGenerator: "Scegli il generatore",
		KeyGeneratorLottery: "Urna", KeyGeneratorRoulette: "Roulette", KeyGeneratorSlot: "Slot machine",
		KeyButtonDraw: "Estrai", KeyButtonSpin: "Gira", KeyButtonPull: "Tira", KeyButtonReset: "Ricomincia",
		KeyButtonShare: "Condividi", KeyButtonClose: "Chiudi",
		KeyResultTitle: "I tuoi numeri", KeyResultMainNumbers: "Numeri", KeyResultBonusNumbers: "Numeri bonus",
		KeyResultComplete: "Completato!", KeyResultCopied: "Copiato negli appunti!",
	},
	language.Portuguese: {
		KeyTitle: "Gerador de números", KeySelectCountry: "Escolha a loteria", KeySelectGenerator: "Escolha o gerador",
		KeyGeneratorLottery: "Globo", KeyGeneratorRoulette: "Roleta", KeyGeneratorSlot: "Caça-níqueis",
		KeyButtonDraw: "Sortear", KeyButtonSpin: "Girar", KeyButtonPull: "Puxar", KeyButtonReset: "Reiniciar",
		KeyButtonShare: "Compartilhar", KeyButtonClose: "Fechar",
		KeyResultTitle: "Seus números", KeyResultMainNumbers: "Dezenas", KeyResultBonusNumbers: "Números bônus",
		KeyResultComplete: "Concluído!", KeyResultCopied: "Copiado para a área de transferência!",
	},
	language.Dutch: {
		KeyTitle: "Geluksnummers", KeySelectCountry: "Kies loterij", KeySelectGenerator: "Kies generator",
		KeyGeneratorLottery: "Trekkingsmachine", KeyGeneratorRoulette: "Roulette", KeyGeneratorSlot: "Gokkast",
		KeyButtonDraw: "Trekken", KeyButtonSpin: "Draaien", KeyButtonPull: "Trekken", KeyButtonReset: "Opnieuw",
		KeyButtonShare: "Delen", KeyButtonClose: "Sluiten",
		KeyResultTitle: "Jouw nummers", KeyResultMainNumbers: "Hoofdnummers", KeyResultBonusNumbers: "Bonusnummers",
		KeyResultComplete: "Klaar!", KeyResultCopied: "Gekopieerd naar klembord!",
	},
	language.Swedish: {
		KeyTitle: "Lyckonummer", KeySelectCountry: "Välj lotteri", KeySelectGenerator: "Välj generator",
		KeyGeneratorLottery: "Dragningsmaskin", KeyGeneratorRoulette: "Roulette", KeyGeneratorSlot: "Spelautomat",
		KeyButtonDraw: "Dra", KeyButtonSpin: "Snurra", KeyButtonPull: "Dra i spaken", KeyButtonReset: "Börja om",
		KeyButtonShare: "Dela", KeyButtonClose: "Stäng",
		KeyResultTitle: "Dina nummer", KeyResultMainNumbers: "Huvudnummer", KeyResultBonusNumbers: "Vikingnummer",
		KeyResultComplete: "Klart!", KeyResultCopied: "Kopierat till urklipp!",
	},
}

// LocaleSelector maps a profile's country code to a language
type LocaleSelector struct {
	byCountry map[string]language.Tag
	fallback  language.Tag
}

// NewLocaleSelector creates the default country table with the given fallback
func NewLocaleSelector(fallback language.Tag) *LocaleSelector {
	return &LocaleSelector{
		byCountry: map[string]language.Tag{
			"KR":     language.Korean,
			"JP":     language.Japanese,
			"DE":     language.German,
			"FR":     language.French,
			"ES":     language.Spanish,
			"IT":     language.Italian,
			"BR":     language.Portuguese,
			"VIKING": language.Swedish,
		},
		fallback: fallback,
	}
}

// ForCountry returns the language for a country code, or the fallback
func (s *LocaleSelector) ForCountry(countryCode string) language.Tag {
	if t, ok := s.byCountry[strings.ToUpper(countryCode)]; ok {
		return t
	}
	return s.fallback
}

// Fallback returns the default language
func (s *LocaleSelector) Fallback() language.Tag { return s.fallback }

// Translator resolves the fixed label keys for the supported languages
type Translator struct {
	cat     *catalog.Builder
	matcher language.Matcher
}

// NewTranslator builds the message catalog from the translation tables
func NewTranslator() (*Translator, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, table := range translations {
		for key, msg := range table {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, ErrConfigInvalid.WithDetails("translation " + tag.String() + "/" + key).WithCause(err)
			}
		}
	}
	return &Translator{cat: b, matcher: language.NewMatcher(SupportedLanguages)}, nil
}

// Match returns the supported language closest to tag, English when none is close
func (t *Translator) Match(tag language.Tag) language.Tag {
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return SupportedLanguages[idx]
}

// Localizer returns the injected per-session localization context for tag
func (t *Translator) Localizer(tag language.Tag) *Localizer {
	matched := t.Match(tag)
	return &Localizer{
		tag:     matched,
		printer: message.NewPrinter(matched, message.Catalog(t.cat)),
	}
}

// Localizer carries the active language. It is passed explicitly to whatever
// renders text; there is no process-wide language state.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// Tag returns the active language
func (l *Localizer) Tag() language.Tag { return l.tag }

// T returns the translation for key, or the key itself when unknown
func (l *Localizer) T(key string) string {
	return l.printer.Sprintf(key)
}

// Sprintf formats with locale-aware number formatting
func (l *Localizer) Sprintf(format string, args ...any) string {
	return l.printer.Sprintf(format, args...)
}
