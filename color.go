package lottery

// ColorBucket is the display group of a number. It has no relation to any
// real-world game's ball colors.
type ColorBucket int

const (
	ColorYellow ColorBucket = iota // below 10, including 0 and negatives
	ColorRed                       // 10-19
	ColorBlue                      // 20-29
	ColorGreen                     // 30-39
	ColorPurple                    // 40-49
	ColorOrange                    // 50 and above
)

var colorBuckets = [...]struct {
	name string
	hex  string
}{
	ColorYellow: {"yellow", "#FFD700"},
	ColorRed:    {"red", "#FF4444"},
	ColorBlue:   {"blue", "#4444FF"},
	ColorGreen:  {"green", "#44FF44"},
	ColorPurple: {"purple", "#AA44FF"},
	ColorOrange: {"orange", "#FF8844"},
}

// ClassifyNumber maps n to its color bucket
func ClassifyNumber(n int) ColorBucket {
	switch {
	case n < 10:
		return ColorYellow
	case n < 20:
		return ColorRed
	case n < 30:
		return ColorBlue
	case n < 40:
		return ColorGreen
	case n < 50:
		return ColorPurple
	default:
		return ColorOrange
	}
}

// String returns the bucket name
func (c ColorBucket) String() string {
	if c < 0 || int(c) >= len(colorBuckets) {
		return "unknown"
	}
	return colorBuckets[c].name
}

// Hex returns the CSS hex color of the bucket
func (c ColorBucket) Hex() string {
	if c < 0 || int(c) >= len(colorBuckets) {
		return ""
	}
	return colorBuckets[c].hex
}

// BallColor returns the hex color for n
func BallColor(n int) string {
	return ClassifyNumber(n).Hex()
}
