package lottery

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var bucketColors = map[ColorBucket]*color.Color{
	ColorYellow: color.New(color.FgBlack, color.BgYellow),
	ColorRed:    color.New(color.FgWhite, color.BgRed),
	ColorBlue:   color.New(color.FgWhite, color.BgBlue),
	ColorGreen:  color.New(color.FgBlack, color.BgGreen),
	ColorPurple: color.New(color.FgWhite, color.BgMagenta),
	ColorOrange: color.New(color.FgBlack, color.BgHiRed),
}

// Ball renders one number as a colored ball
func Ball(n int) string {
	c, ok := bucketColors[ClassifyNumber(n)]
	if !ok {
		return fmt.Sprintf(" %2d ", n)
	}
	return c.Sprintf(" %2d ", n)
}

// RenderBalls writes numbers as colored balls on one line
func RenderBalls(w io.Writer, numbers []int) error {
	balls := make([]string, len(numbers))
	for i, n := range numbers {
		balls[i] = Ball(n)
	}
	_, err := fmt.Fprintln(w, strings.Join(balls, " "))
	return err
}

// RenderProgress writes a one-line "label k/N [####----]" bar
func RenderProgress(w io.Writer, label string, p Progress, width int) error {
	if width <= 0 {
		width = 20
	}
	filled := 0
	if p.Total > 0 {
		filled = min(width*p.Revealed/p.Total, width)
	}
	bar := strings.Repeat("#", filled) + strings.Repeat("-", width-filled)
	_, err := fmt.Fprintf(w, "%s %d/%d [%s]\n", label, p.Revealed, p.Total, bar)
	return err
}

// RenderResult writes a boxed, localized result table. Labels are aligned by
// display width so CJK text lines up.
func RenderResult(w io.Writer, loc *Localizer, game GameProfile, result GeneratedNumbers) error {
	sorted := result.Sorted()

	keys := []string{loc.T(KeySelectCountry), loc.T(KeyResultMainNumbers)}
	vals := []string{game.DisplayName(), joinNumbers(sorted.MainNumbers)}
	if len(sorted.BonusNumbers) > 0 {
		keys = append(keys, loc.T(KeyResultBonusNumbers))
		vals = append(vals, joinNumbers(sorted.BonusNumbers))
	}

	_, err := io.WriteString(w, fmtTable(loc.T(KeyResultTitle), keys, vals))
	return err
}

func fmtTable(title string, keys, vals []string) string {
	maxKeyLen, maxValLen := 0, 0
	for i := range keys {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(keys[i]))
		maxValLen = max(maxValLen, runewidth.StringWidth(vals[i]))
	}
	maxKeyLen += 2
	maxValLen += 2

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	if titleW > totalInner {
		maxValLen += titleW - totalInner
		totalInner = titleW
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", totalInner) + "+\n"

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	fmt.Fprintf(&b, "|%s%s%s|\n", blank(left), title, blank(right))
	b.WriteString(divider)
	for i, k := range keys {
		fmt.Fprintf(&b, "| %s%s | %s%s |\n",
			k, blank(maxKeyLen-2-runewidth.StringWidth(k)),
			vals[i], blank(maxValLen-2-runewidth.StringWidth(vals[i])))
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
